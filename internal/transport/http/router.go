// Package httptransport is the thin HTTP layer: routing, middleware, and the
// JSON error envelope. Business logic stays in the identity service.
package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"civicid/internal/platform/metrics"
	"civicid/internal/platform/middleware"
	dErrors "civicid/pkg/domain-errors"
)

// NewRouter wires all public endpoints behind the shared middleware chain.
func NewRouter(
	h *AuthHandler,
	validator middleware.JWTValidator,
	logger *slog.Logger,
	m *metrics.Metrics,
	corsOrigins []string,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	r.Use(middleware.LatencyMiddleware(m))

	r.Get("/healthz", handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.Timeout(30 * time.Second))

		r.Post("/auth/signup", h.handleSignup)
		r.Post("/auth/login/{userType}", h.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(validator, logger))
			r.Get("/auth/profile", h.handleProfile)
			r.Post("/auth/logout", h.handleLogout)
			r.Post("/auth/password", h.handleChangePassword)
		})
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// writeError centralizes domain error translation to HTTP responses, keeping
// one JSON error envelope across handlers. Non-domain errors surface as an
// opaque internal failure; their detail lives in logs only.
func writeError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	message := "internal error"
	if code != dErrors.CodeInternal {
		message = err.Error()
	} else if de, ok := err.(dErrors.Error); ok {
		message = de.Message
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(dErrors.ToHTTPStatus(code))
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   string(code),
		"message": message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
