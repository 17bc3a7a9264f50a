package home

import (
	"context"
	"net/http"

	groupstore "github.com/dalemusser/chordhub/internal/app/store/groups"
	"github.com/dalemusser/chordhub/internal/app/system/authz"
	"github.com/dalemusser/chordhub/internal/app/system/httpjson"
	"github.com/dalemusser/chordhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler holds dependencies needed to serve the landing resource.
type Handler struct {
	Groups *groupstore.Store
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Groups: groupstore.New(db),
		Log:    logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	body := struct {
		App       string `json:"app"`
		Community string `json:"community,omitempty"`
		Viewer    string `json:"viewer,omitempty"`
	}{
		App: "chordhub",
	}

	if g, err := h.Groups.GetSystemGroup(ctx); err == nil {
		body.Community = g.Slug
	} else if err != mongo.ErrNoDocuments {
		h.Log.Error("system group lookup failed", zap.Error(err))
	}

	if name, _, ok := authz.UserCtx(r); ok {
		body.Viewer = name
	}

	httpjson.Write(w, http.StatusOK, body)
}
