// internal/app/features/arrangements/routes.go
package arrangements

import (
	"github.com/dalemusser/chordhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.HandleListBySong)
	r.Get("/{id}", h.HandleGet)
	r.Get("/{id}/history", h.HandleHistory)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/", h.HandleCreate)
		pr.Put("/{id}", h.HandleEdit)
		pr.Post("/{id}/sheet", h.HandleUploadSheet)
	})

	return r
}
