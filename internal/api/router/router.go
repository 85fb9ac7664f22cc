package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/DaichiHaraguchi/sample-chat-bot/internal/http/handlers"
	httpmiddleware "github.com/DaichiHaraguchi/sample-chat-bot/internal/http/middleware"
	"github.com/DaichiHaraguchi/sample-chat-bot/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	WebhookHandler *handlers.LineWebhookHandler
	MetricsHandler http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/", cfg.WebhookHandler.HealthCheck)
	r.Get("/health", cfg.WebhookHandler.HealthCheck)
	r.Post("/callback", cfg.WebhookHandler.HandleCallback)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}
