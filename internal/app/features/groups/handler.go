// internal/app/features/groups/handler.go
package groups

import (
	"net/http"

	"github.com/dalemusser/chordhub/internal/app/governance"
	groupstore "github.com/dalemusser/chordhub/internal/app/store/groups"
	requeststore "github.com/dalemusser/chordhub/internal/app/store/joinrequests"
	membershipstore "github.com/dalemusser/chordhub/internal/app/store/memberships"
	"github.com/dalemusser/chordhub/internal/app/system/auditlog"
	"github.com/dalemusser/chordhub/internal/app/system/authz"
	"github.com/dalemusser/chordhub/internal/app/system/httpjson"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the group governance endpoints. All mutations go through
// the governance Service; the stores are used directly for reads.
type Handler struct {
	Gov         *governance.Service
	Groups      *groupstore.Store
	Memberships *membershipstore.Store
	Requests    *requeststore.Store
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, auditLog *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Gov:         governance.New(db, logger, auditLog),
		Groups:      groupstore.New(db),
		Memberships: membershipstore.New(db),
		Requests:    requeststore.New(db),
		Log:         logger,
	}
}

// requireUser pulls the signed-in user ID from context. RequireSignedIn
// already guards these routes, so a miss here means a session with a
// malformed user ID.
func requireUser(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "sign-in required")
		return primitive.NilObjectID, false
	}
	return userID, true
}

// pathID parses a chi URL parameter as an ObjectID.
func pathID(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}
