/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the desktop/web shell

ROUTE GROUPS:
  /api/entities/*    Legal entity management
  /api/tasks/*       Obligation list and manual task mutations
  /api/admin/*       Regeneration and status refresh
  /api/holidays      Active holiday table

SECURITY NOTE:
  No authentication middleware. This server fronts a single-operator
  desktop deployment; do not expose it publicly as-is.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Entity routes
		r.Route("/entities", func(r chi.Router) {
			r.Get("/", h.ListEntities)
			r.Post("/", h.CreateEntity)
			r.Get("/{id}", h.GetEntity)
			r.Put("/{id}", h.UpdateEntity)
			r.Delete("/{id}", h.DeleteEntity)
			r.Post("/{id}/archive", h.ArchiveEntity)
			r.Post("/{id}/unarchive", h.UnarchiveEntity)
			r.Get("/{id}/tasks", h.ListEntityTasks)
		})

		// Task routes
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.ListTasks)
			r.Post("/", h.CreateTask)
			r.Post("/complete", h.BulkComplete)
			r.Put("/{id}", h.UpdateTask)
			r.Delete("/{id}", h.DeleteTask)
			r.Get("/{id}/deletion-preview", h.PreviewDeletion)
			r.Post("/{id}/toggle", h.ToggleComplete)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/regenerate", h.TriggerRegenerate)
			r.Post("/refresh", h.TriggerRefresh)
		})

		// Holiday routes
		r.Get("/holidays", h.ListHolidays)
	})

	return r
}
