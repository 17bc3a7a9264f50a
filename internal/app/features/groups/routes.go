// internal/app/features/groups/routes.go
package groups

import (
	"github.com/dalemusser/chordhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Everything under /groups requires authentication
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Get("/", h.HandleList)
		pr.Post("/", h.HandleCreate)

		pr.Get("/{id}", h.HandleGet)
		pr.Patch("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)

		// Membership
		pr.Get("/{id}/members", h.HandleMembers)
		pr.Post("/{id}/join", h.HandleJoin)
		pr.Delete("/{id}/join", h.HandleCancelJoin)
		pr.Post("/{id}/leave", h.HandleLeave)

		// Join request review
		pr.Get("/{id}/requests", h.HandlePendingRequests)
		pr.Post("/{id}/requests/{requestID}/approve", h.HandleApprove)
		pr.Post("/{id}/requests/{requestID}/reject", h.HandleReject)

		// Role management
		pr.Post("/{id}/members/{userID}/promote", h.HandlePromote)
		pr.Post("/{id}/members/{userID}/demote", h.HandleDemote)
		pr.Delete("/{id}/members/{userID}", h.HandleRemoveMember)

		// Ownership
		pr.Post("/{id}/transfer/{userID}", h.HandleTransfer)
	})

	return r
}
