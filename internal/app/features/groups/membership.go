// internal/app/features/groups/membership.go
package groups

import (
	"context"
	"net/http"

	"github.com/dalemusser/chordhub/internal/app/governance"
	"github.com/dalemusser/chordhub/internal/app/system/httpjson"
	"github.com/dalemusser/chordhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleLeave handles POST /groups/{id}/leave. An owner leaving triggers
// succession; the last member leaving a non-system group dissolves it.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Gov.LeaveGroup(ctx, groupID, userID); err != nil {
		if governance.IsEngineError(err) {
			httpjson.WriteEngineError(w, err)
			return
		}
		h.Log.Error("leave group failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "left"})
}

// HandlePromote handles POST /groups/{id}/members/{userID}/promote.
func (h *Handler) HandlePromote(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	targetID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Gov.PromoteToAdmin(ctx, groupID, actorID, targetID); err != nil {
		if governance.IsEngineError(err) {
			httpjson.WriteEngineError(w, err)
			return
		}
		h.Log.Error("promote failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "promoted"})
}

// HandleDemote handles POST /groups/{id}/members/{userID}/demote.
func (h *Handler) HandleDemote(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	targetID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Gov.DemoteAdmin(ctx, groupID, actorID, targetID); err != nil {
		if governance.IsEngineError(err) {
			httpjson.WriteEngineError(w, err)
			return
		}
		h.Log.Error("demote failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "demoted"})
}

// HandleRemoveMember handles DELETE /groups/{id}/members/{userID}.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	targetID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Gov.RemoveMember(ctx, groupID, actorID, targetID); err != nil {
		if governance.IsEngineError(err) {
			httpjson.WriteEngineError(w, err)
			return
		}
		h.Log.Error("remove member failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleTransfer handles POST /groups/{id}/transfer/{userID}. Owner only;
// the previous owner remains in the group as an admin.
func (h *Handler) HandleTransfer(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	targetID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Gov.TransferOwnership(ctx, groupID, actorID, targetID); err != nil {
		if governance.IsEngineError(err) {
			httpjson.WriteEngineError(w, err)
			return
		}
		h.Log.Error("ownership transfer failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "transferred"})
}
