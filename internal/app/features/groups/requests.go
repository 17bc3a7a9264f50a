// internal/app/features/groups/requests.go
package groups

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/chordhub/internal/app/governance"
	"github.com/dalemusser/chordhub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/chordhub/internal/app/system/httpjson"
	"github.com/dalemusser/chordhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type joinRequestBody struct {
	Message string `json:"message,omitempty"`
}

// HandleJoin handles POST /groups/{id}/join. Open groups grant immediate
// membership; approval groups record a pending request.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var body joinRequestBody
	if r.ContentLength > 0 {
		if err := httpjson.Decode(w, r, &body); err != nil {
			httpjson.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	res, err := h.Gov.RequestJoin(ctx, groupID, userID, body.Message)
	if err != nil {
		if governance.IsEngineError(err) {
			httpjson.WriteEngineError(w, err)
			return
		}
		h.Log.Error("join request failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	if res.Joined {
		httpjson.Write(w, http.StatusCreated, map[string]any{
			"status":     "joined",
			"membership": res.Membership,
		})
		return
	}
	httpjson.Write(w, http.StatusAccepted, map[string]any{
		"status":  "pending",
		"request": res.Request,
	})
}

// HandleCancelJoin handles DELETE /groups/{id}/join. Withdraws the
// caller's pending request.
func (h *Handler) HandleCancelJoin(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Gov.CancelRequest(ctx, groupID, userID); err != nil {
		if governance.IsEngineError(err) {
			httpjson.WriteEngineError(w, err)
			return
		}
		h.Log.Error("cancel join request failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePendingRequests handles GET /groups/{id}/requests. Visible to the
// owner and admins only.
func (h *Handler) HandlePendingRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	actor, err := h.Memberships.Get(ctx, groupID, userID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		h.Log.Error("load actor membership failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !grouppolicy.Resolve(actor, nil).CanApproveRequests {
		httpjson.Error(w, http.StatusForbidden, "only the owner and admins can view pending requests")
		return
	}

	reqs, err := h.Requests.ListPending(ctx, groupID)
	if err != nil {
		h.Log.Error("list pending requests failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, reqs)
}

// HandleApprove handles POST /groups/{id}/requests/{requestID}/approve.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	requestID, ok := pathID(w, r, "requestID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.Gov.ApproveRequest(ctx, groupID, actorID, requestID)
	if err != nil {
		if governance.IsEngineError(err) {
			httpjson.WriteEngineError(w, err)
			return
		}
		h.Log.Error("approve request failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"status":     "approved",
		"membership": m,
	})
}

// HandleReject handles POST /groups/{id}/requests/{requestID}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	requestID, ok := pathID(w, r, "requestID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Gov.RejectRequest(ctx, groupID, actorID, requestID); err != nil {
		if governance.IsEngineError(err) {
			httpjson.WriteEngineError(w, err)
			return
		}
		h.Log.Error("reject request failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "rejected"})
}
