// internal/app/features/me/routes.go
package me

import (
	"github.com/dalemusser/cleanupcrew/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /me.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeProfile)
		pr.Get("/events", h.ServeEvents)
	})
	return r
}
