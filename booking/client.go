package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Brianmulinge/wanderi/consultation"
	"github.com/pkg/errors"
)

// ConsultationPath is where the server mounts the submission endpoint.
const ConsultationPath = "/api/consultation"

// Client submits booking requests to a running wanderi server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type acceptedResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type rejectedResponse struct {
	Error string `json:"error"`
}

// Submit POSTs req as JSON and decodes the server's verdict. Non-2xx
// responses come back as errors carrying only the server's generic message.
func (c *Client) Submit(ctx context.Context, req consultation.Request) (*Receipt, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "encoding consultation request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ConsultationPath, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "building consultation request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "submitting consultation request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var rejected rejectedResponse
		if err := json.NewDecoder(resp.Body).Decode(&rejected); err == nil && rejected.Error != "" {
			return nil, errors.New(rejected.Error)
		}
		return nil, errors.Errorf("consultation request failed with status %v", resp.StatusCode)
	}

	var accepted acceptedResponse
	if err := json.NewDecoder(resp.Body).Decode(&accepted); err != nil {
		return nil, errors.Wrap(err, "decoding consultation response")
	}

	return &Receipt{Message: accepted.Message, ID: accepted.ID}, nil
}
