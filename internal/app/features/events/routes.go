// internal/app/features/events/routes.go
package events

import (
	"github.com/dalemusser/cleanupcrew/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /events. Every endpoint requires a signed-in user.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)
		pr.Get("/{id}", h.ServeDetail)
		pr.Post("/{id}/register", h.HandleRegister)
		pr.Get("/{id}/volunteers", h.ServeRoster)
		pr.Get("/{id}/calendar.ics", h.ServeCalendar)
		pr.Get("/{id}/qr.png", h.ServeQR)
	})
	return r
}
