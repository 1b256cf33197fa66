package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Brianmulinge/wanderi/booking"
	"github.com/Brianmulinge/wanderi/server/logger"
	"github.com/Brianmulinge/wanderi/server/mailer"
	"github.com/Brianmulinge/wanderi/server/monitoring"
	"github.com/Brianmulinge/wanderi/shared"
	"github.com/gorilla/mux"
)

var logg = logger.NewLogger()

// NewRouter wires the consultation endpoint plus the health & metrics
// probes behind the middleware chain. Split from Start so tests can mount
// the full stack on an httptest server.
func NewRouter(handler *ConsultationHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(initialContextMiddleware, loggingMiddleware, recoveryMiddleware)

	router.HandleFunc(booking.ConsultationPath, handler.Create).Methods("POST")
	router.HandleFunc("/health", healthCheckHandler).Methods("GET")
	router.Handle("/metrics", monitoring.Handler()).Methods("GET")

	return router
}

// Start brings up the HTTP server with a real SES transport and blocks
// until SIGINT/SIGTERM, then shuts down gracefully.
func Start(config shared.ServerConfig) {
	sesMailer, err := mailer.NewSESMailer(context.Background(), config.Mailer)
	fatalOnError(err)

	handler := NewConsultationHandler(config.Mailer, sesMailer)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%v", config.Wanderi.Listener.Port),
		Handler: NewRouter(handler),
	}

	go serve(server)

	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, syscall.SIGINT, syscall.SIGTERM)
	<-sigChannel

	cleanup(server)
}
