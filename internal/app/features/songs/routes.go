// internal/app/features/songs/routes.go
package songs

import (
	"github.com/dalemusser/chordhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Reads are public; everything else requires authentication.
	r.Get("/", h.HandleList)
	r.Get("/{id}", h.HandleGet)
	r.Get("/{id}/history", h.HandleHistory)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleEdit)
		pr.Post("/{id}/collaborators", h.HandleAddCollaborator)
		pr.Post("/{id}/donate", h.HandleDonate)
		pr.Post("/{id}/transfer/{groupID}", h.HandleTransferToGroup)
	})

	return r
}
