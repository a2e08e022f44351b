// Package httptransport assembles the public router: read-only query routes
// stay open for collaborators, mutation routes sit behind bearer auth, and
// the operational endpoints (health, metrics) hang off the root.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"steward/internal/platform/middleware"
	"steward/internal/registry/handler"
)

// NewRouter wires all endpoints.
func NewRouter(h *handler.Handler, validator middleware.TokenValidator, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(h.RegisterQueries)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(validator, logger))
		h.RegisterMutations(r)
	})

	return r
}
