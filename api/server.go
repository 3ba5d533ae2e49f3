/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address behind proxies
  3. Logger:     Request logging
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for the dashboard frontend

ROUTE GROUPS:
  /api/skus/*          SKU listing and snapshots
  /api/preferences/*   Preference flags
  /api/reservations/*  Reservation release
  /healthz             Liveness
  /metrics             Prometheus metrics

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/console/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/skus", func(r chi.Router) {
			r.Get("/", h.ListSKUs)
			r.Get("/{sku}/snapshot", h.GetSnapshot)
			r.Post("/{sku}/reservations", h.CreateReservation)
		})

		r.Route("/reservations", func(r chi.Router) {
			r.Delete("/{id}", h.ReleaseReservation)
		})

		r.Route("/preferences", func(r chi.Router) {
			r.Get("/{key}", h.GetPreference)
			r.Put("/{key}", h.SetPreference)
			r.Delete("/{key}", h.DeletePreference)
		})
	})

	r.Get("/healthz", h.Health)
	r.Method("GET", "/metrics", h.Metrics.Handler())

	return r
}
