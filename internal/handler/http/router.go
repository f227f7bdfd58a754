package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/11sap/userService/pkg/health"
	"github.com/11sap/userService/pkg/middleware"

	"github.com/11sap/userService/internal/service"
)

// NewRouter creates a chi router with all user service routes registered.
func NewRouter(
	accountService *service.AccountService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsConfig CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("user"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Auth endpoints (public)
	authHandler := NewAuthHandler(accountService, logger)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	// Account endpoints (auth required)
	accountHandler := NewAccountHandler(accountService, logger)
	r.Route("/api/v1/accounts", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(RequireAuth(accountService))

		r.Get("/", accountHandler.List)
		r.Get("/{id}", accountHandler.Get)
		r.Patch("/{id}/status", accountHandler.UpdateStatus)
	})

	return r
}
