package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Brianmulinge/wanderi/consultation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingRequest() consultation.Request {
	return consultation.Request{
		Name:          "Jane Doe",
		Age:           "34",
		ContactMethod: consultation.ContactEmail,
		Email:         "jane@example.com",
		Services:      []string{"term-life"},
		Date:          "2025-06-01",
		Time:          "10:00 AM",
	}
}

func TestClientSubmitSuccess(t *testing.T) {
	var received consultation.Request

	testServer := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, ConsultationPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		json.NewEncoder(rw).Encode(map[string]string{
			"message": "Consultation request sent successfully",
			"id":      "msg-123",
		})
	}))
	defer testServer.Close()

	client := NewClient(testServer.URL)
	receipt, err := client.Submit(context.Background(), bookingRequest())

	require.NoError(t, err)
	assert.Equal(t, "Consultation request sent successfully", receipt.Message)
	assert.Equal(t, "msg-123", receipt.ID)
	assert.Equal(t, bookingRequest(), received)
}

func TestClientSubmitSurfacesServerErrorMessage(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(rw).Encode(map[string]string{"error": "Invalid form data"})
	}))
	defer testServer.Close()

	client := NewClient(testServer.URL)
	_, err := client.Submit(context.Background(), bookingRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid form data")
}

func TestClientSubmitHandlesUnparsableErrorBody(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusBadGateway)
		rw.Write([]byte("<html>bad gateway</html>"))
	}))
	defer testServer.Close()

	client := NewClient(testServer.URL)
	_, err := client.Submit(context.Background(), bookingRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClientSubmitReportsNetworkFailure(t *testing.T) {
	testServer := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {}))
	testServer.Close()

	client := NewClient(testServer.URL)
	_, err := client.Submit(context.Background(), bookingRequest())

	assert.Error(t, err)
}
