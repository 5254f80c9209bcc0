// Package http exposes the pricing API over HTTP using chi.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/light-bringer/rolediscount-service/internal/pkg/metrics"
)

// NewRouter builds the HTTP router. Middleware order matters: recovery is
// outermost and identity runs before any handler reads roles.
func NewRouter(h *PricingHandler, m *metrics.Metrics, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(MetricsMiddleware(m))
	r.Use(IdentityMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Route("/api/v1", h.RegisterRoutes)

	return r
}
