// internal/app/features/attendance/routes.go
package attendance

import (
	"github.com/dalemusser/cleanupcrew/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /scan.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/", h.HandleScan)
	})
	return r
}
