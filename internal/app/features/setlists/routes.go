// internal/app/features/setlists/routes.go
package setlists

import (
	"github.com/dalemusser/chordhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/{id}", h.HandleGet)
	r.Get("/{id}/history", h.HandleHistory)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/", h.HandleMine)
		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleEdit)
	})

	return r
}
