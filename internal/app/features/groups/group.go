// internal/app/features/groups/group.go
package groups

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/chordhub/internal/app/governance"
	"github.com/dalemusser/chordhub/internal/app/system/httpjson"
	"github.com/dalemusser/chordhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type groupRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
	JoinPolicy  string `json:"join_policy,omitempty"`
}

// HandleCreate handles POST /groups. The creator becomes the owner.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req groupRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		httpjson.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Gov.CreateGroup(ctx, userID, req.Name, req.Slug, req.Description, req.JoinPolicy)
	if err != nil {
		if governance.IsEngineError(err) {
			httpjson.WriteEngineError(w, err)
			return
		}
		h.Log.Error("create group failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpjson.Write(w, http.StatusCreated, g)
}

// HandleList handles GET /groups.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	gs, err := h.Groups.List(ctx, 200)
	if err != nil {
		h.Log.Error("list groups failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, gs)
}

// HandleGet handles GET /groups/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "group not found")
			return
		}
		h.Log.Error("get group failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, g)
}

// HandleUpdate handles PATCH /groups/{id}. Owner only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req groupRequest
	if err := httpjson.Decode(w, r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Gov.UpdateGroup(ctx, groupID, userID, req.Name, req.Description, req.JoinPolicy); err != nil {
		if governance.IsEngineError(err) {
			httpjson.WriteEngineError(w, err)
			return
		}
		h.Log.Error("update group failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "updated"})
}

// HandleDelete handles DELETE /groups/{id}. Owner only; the system group
// cannot be deleted.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Gov.DeleteGroup(ctx, groupID, userID); err != nil {
		if governance.IsEngineError(err) {
			httpjson.WriteEngineError(w, err)
			return
		}
		h.Log.Error("delete group failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMembers handles GET /groups/{id}/members. Output is ordered:
// owner first, admins by seniority, members by tenure.
func (h *Handler) HandleMembers(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ms, err := h.Memberships.ListByGroup(ctx, groupID)
	if err != nil {
		h.Log.Error("list members failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, ms)
}
