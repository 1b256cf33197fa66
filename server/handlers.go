package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Brianmulinge/wanderi/consultation"
	"github.com/Brianmulinge/wanderi/server/mailer"
	"github.com/Brianmulinge/wanderi/server/monitoring"
	"github.com/Brianmulinge/wanderi/shared"
)

// SuccessResponse acknowledges an accepted consultation request. ID is the
// mail provider's opaque message identifier.
type SuccessResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// ErrorResponse reports a rejected request. Details lists every failing
// field for validation errors and is omitted for server errors.
type ErrorResponse struct {
	Error   string                    `json:"error"`
	Details []consultation.FieldError `json:"details,omitempty"`
}

// ConsultationHandler is the only component allowed to talk to the mail
// transport. Configuration is injected at construction so tests can swap
// in a fake mailer.
type ConsultationHandler struct {
	config shared.MailerConfig
	mailer mailer.Mailer
}

func NewConsultationHandler(config shared.MailerConfig, mailer mailer.Mailer) *ConsultationHandler {
	return &ConsultationHandler{config: config, mailer: mailer}
}

// Create re-validates the submitted payload, renders the notification and
// dispatches it to the operator inbox. The client's own validation is never
// trusted.
func (h *ConsultationHandler) Create(rw http.ResponseWriter, r *http.Request) {
	var req consultation.Request

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		monitoring.ConsultationRequests.WithLabelValues("invalid").Inc()
		writeResponse(rw, ErrorResponse{
			Error:   "Invalid form data",
			Details: []consultation.FieldError{{Field: "body", Message: "request body must be a JSON object"}},
		}, http.StatusBadRequest)
		return
	}

	if err := consultation.Validate(req); err != nil {
		monitoring.ConsultationRequests.WithLabelValues("invalid").Inc()

		var vErr *consultation.ValidationError
		if !errors.As(err, &vErr) {
			logg.Errorf("consultation validation: %v", err)
			writeResponse(rw, ErrorResponse{Error: "Internal server error"}, http.StatusInternalServerError)
			return
		}
		writeResponse(rw, ErrorResponse{Error: "Invalid form data", Details: vErr.Fields}, http.StatusBadRequest)
		return
	}

	doc, err := consultation.Render(req)
	if err != nil {
		monitoring.ConsultationRequests.WithLabelValues("failed").Inc()
		logg.Errorf("rendering consultation email: %v", err)
		writeResponse(rw, ErrorResponse{Error: "Internal server error"}, http.StatusInternalServerError)
		return
	}

	email := mailer.Email{
		From:    h.config.FromEmail,
		To:      h.config.ConsultationEmail,
		Subject: doc.Subject,
		HTML:    doc.HTML,
	}
	if req.ContactMethod == consultation.ContactEmail {
		email.ReplyTo = req.Email
	}

	id, err := h.mailer.Send(r.Context(), email)
	if err != nil {
		monitoring.ConsultationRequests.WithLabelValues("failed").Inc()

		// Transport detail is for operators only, never the caller
		logg.Errorf("sending consultation email: %v", err)
		writeResponse(rw, ErrorResponse{Error: "Failed to send consultation request"}, http.StatusInternalServerError)
		return
	}

	monitoring.ConsultationRequests.WithLabelValues("accepted").Inc()
	writeResponse(rw, SuccessResponse{Message: "Consultation request sent successfully", ID: id}, http.StatusOK)
}

func healthCheckHandler(rw http.ResponseWriter, r *http.Request) {
	json.NewEncoder(rw).Encode(map[string]string{"status": "ok"})
}
