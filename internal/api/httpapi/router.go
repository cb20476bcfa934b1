// Package httpapi exposes the batch analysis and introspection endpoints.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the API router. The streaming handler is mounted
// alongside the REST endpoints so one listener serves both surfaces.
func NewRouter(h *Handler, stream http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Post("/analyze", h.Analyze)
	r.Get("/sessions", h.Sessions)
	r.Get("/models", h.Models)
	r.Get("/health", h.Health)

	r.Get("/stream/{call_sid}", stream.ServeHTTP)

	return r
}
