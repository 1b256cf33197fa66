package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Brianmulinge/wanderi/booking"
	"github.com/Brianmulinge/wanderi/server/mailer"
	"github.com/Brianmulinge/wanderi/shared"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Implementations
// ==========================

type MockMailer struct {
	SendFunc func(ctx context.Context, email mailer.Email) (string, error)
	sent     []mailer.Email
}

func (m *MockMailer) Send(ctx context.Context, email mailer.Email) (string, error) {
	m.sent = append(m.sent, email)
	if m.SendFunc == nil {
		return "msg-123", nil
	}
	return m.SendFunc(ctx, email)
}

// ==========================
// Test Helper Functions
// ==========================

func testMailerConfig() shared.MailerConfig {
	return shared.MailerConfig{
		Region:            "us-east-1",
		FromEmail:         "consultations@wanderi-insurance.com",
		ConsultationEmail: "brian@wanderi-insurance.com",
	}
}

func newTestServer(t *testing.T, mock *MockMailer) *httptest.Server {
	t.Helper()

	handler := NewConsultationHandler(testMailerConfig(), mock)
	testServer := httptest.NewServer(NewRouter(handler))
	t.Cleanup(testServer.Close)

	return testServer
}

func validPayload() map[string]interface{} {
	return map[string]interface{}{
		"name":          "Jane Doe",
		"age":           "34",
		"contactMethod": "email",
		"email":         "jane@example.com",
		"services":      []string{"term-life"},
		"date":          "2025-06-01",
		"time":          "10:00 AM",
	}
}

func postConsultation(t *testing.T, testServer *httptest.Server, payload interface{}) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(testServer.URL+booking.ConsultationPath, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func decodeError(t *testing.T, resp *http.Response) ErrorResponse {
	t.Helper()

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	return errResp
}

func detailFields(errResp ErrorResponse) []string {
	fields := make([]string, 0, len(errResp.Details))
	for _, fe := range errResp.Details {
		fields = append(fields, fe.Field)
	}
	return fields
}

// ==========================
// Core Functionality Tests
// ==========================

func TestCreateConsultationSuccess(t *testing.T) {
	mock := &MockMailer{}
	testServer := newTestServer(t, mock)

	resp := postConsultation(t, testServer, validPayload())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var success SuccessResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&success))
	assert.Equal(t, "Consultation request sent successfully", success.Message)
	assert.Equal(t, "msg-123", success.ID)

	require.Len(t, mock.sent, 1)
	email := mock.sent[0]
	assert.Equal(t, "consultations@wanderi-insurance.com", email.From)
	assert.Equal(t, "brian@wanderi-insurance.com", email.To)
	assert.Equal(t, "New Consultation Request from Jane Doe", email.Subject)
	assert.Equal(t, "jane@example.com", email.ReplyTo)
	assert.Contains(t, email.HTML, "Term Life Insurance")
	assert.Contains(t, email.HTML, "Sunday, June 1, 2025")
}

func TestCreateConsultationPhoneContactHasNoReplyTo(t *testing.T) {
	mock := &MockMailer{}
	testServer := newTestServer(t, mock)

	payload := validPayload()
	payload["contactMethod"] = "phone"
	payload["phone"] = "5551234567"
	delete(payload, "email")

	resp := postConsultation(t, testServer, payload)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, mock.sent, 1)
	assert.Empty(t, mock.sent[0].ReplyTo)
	assert.Contains(t, mock.sent[0].HTML, "5551234567")
}

func TestCreateConsultationMissingEmail(t *testing.T) {
	mock := &MockMailer{}
	testServer := newTestServer(t, mock)

	payload := validPayload()
	delete(payload, "email")

	resp := postConsultation(t, testServer, payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errResp := decodeError(t, resp)
	assert.Equal(t, "Invalid form data", errResp.Error)
	assert.Contains(t, detailFields(errResp), "email")

	// validation failures never reach the transport
	assert.Empty(t, mock.sent)
}

func TestCreateConsultationShortPhone(t *testing.T) {
	mock := &MockMailer{}
	testServer := newTestServer(t, mock)

	payload := validPayload()
	payload["contactMethod"] = "phone"
	payload["phone"] = "555123456"
	delete(payload, "email")

	resp := postConsultation(t, testServer, payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errResp := decodeError(t, resp)
	assert.Contains(t, detailFields(errResp), "phone")
	assert.Empty(t, mock.sent)
}

func TestCreateConsultationCollectsEveryFailingField(t *testing.T) {
	mock := &MockMailer{}
	testServer := newTestServer(t, mock)

	resp := postConsultation(t, testServer, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errResp := decodeError(t, resp)
	assert.ElementsMatch(t,
		[]string{"name", "age", "contactMethod", "services", "date", "time"},
		detailFields(errResp))
}

func TestCreateConsultationMalformedBody(t *testing.T) {
	mock := &MockMailer{}
	testServer := newTestServer(t, mock)

	resp, err := http.Post(testServer.URL+booking.ConsultationPath, "application/json",
		bytes.NewReader([]byte("not json")))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, mock.sent)
}

func TestCreateConsultationTransportFailure(t *testing.T) {
	mock := &MockMailer{
		SendFunc: func(ctx context.Context, email mailer.Email) (string, error) {
			return "", errors.New("ses: MessageRejected: address not verified")
		},
	}
	testServer := newTestServer(t, mock)

	resp := postConsultation(t, testServer, validPayload())
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	errResp := decodeError(t, resp)
	assert.Equal(t, "Failed to send consultation request", errResp.Error)
	assert.Empty(t, errResp.Details)

	// transport detail stays out of the response body
	assert.NotContains(t, errResp.Error, "MessageRejected")
}

func TestCreateConsultationPanicIsRecovered(t *testing.T) {
	mock := &MockMailer{
		SendFunc: func(ctx context.Context, email mailer.Email) (string, error) {
			panic("mailer blew up")
		},
	}
	testServer := newTestServer(t, mock)

	resp := postConsultation(t, testServer, validPayload())
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	errResp := decodeError(t, resp)
	assert.Equal(t, "Internal server error", errResp.Error)
}

// ==========================
// Probe Endpoints
// ==========================

func TestHealthCheck(t *testing.T) {
	testServer := newTestServer(t, &MockMailer{})

	resp, err := http.Get(testServer.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	testServer := newTestServer(t, &MockMailer{})

	resp, err := http.Get(testServer.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
