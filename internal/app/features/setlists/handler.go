// internal/app/features/setlists/handler.go
package setlists

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/chordhub/internal/app/content"
	"github.com/dalemusser/chordhub/internal/app/governance"
	setliststore "github.com/dalemusser/chordhub/internal/app/store/setlists"
	"github.com/dalemusser/chordhub/internal/app/system/authz"
	"github.com/dalemusser/chordhub/internal/app/system/httpjson"
	"github.com/dalemusser/chordhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Content  *content.Service
	Setlists *setliststore.Store
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Content:  content.NewService(db, logger),
		Setlists: setliststore.New(db),
		Log:      logger,
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	_, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "sign-in required")
		return primitive.NilObjectID, false
	}
	return userID, true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}

type setlistBody struct {
	Name           string   `json:"name"`
	Notes          string   `json:"notes,omitempty"`
	ArrangementIDs []string `json:"arrangement_ids,omitempty"`
	ChangeNote     string   `json:"change_note,omitempty"`
}

func (b setlistBody) edit() (content.SetlistEdit, error) {
	ids := make([]primitive.ObjectID, 0, len(b.ArrangementIDs))
	for _, raw := range b.ArrangementIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return content.SetlistEdit{}, err
		}
		ids = append(ids, id)
	}
	return content.SetlistEdit{
		Name:           b.Name,
		Notes:          b.Notes,
		ArrangementIDs: ids,
		ChangeNote:     b.ChangeNote,
	}, nil
}

// HandleCreate handles POST /setlists.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body setlistBody
	if err := httpjson.Decode(w, r, &body); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Name == "" {
		httpjson.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	edit, err := body.edit()
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid arrangement id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sl, err := h.Content.CreateSetlist(ctx, userID, edit)
	if err != nil {
		if governance.IsEngineError(err) {
			httpjson.WriteEngineError(w, err)
			return
		}
		h.Log.Error("create setlist failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusCreated, sl)
}

// HandleGet handles GET /setlists/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	setlistID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sl, err := h.Setlists.GetByID(ctx, setlistID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "setlist not found")
			return
		}
		h.Log.Error("get setlist failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, sl)
}

// HandleMine handles GET /setlists. Returns the caller's setlists.
func (h *Handler) HandleMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sls, err := h.Setlists.ListByUser(ctx, userID)
	if err != nil {
		h.Log.Error("list setlists failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, sls)
}

// HandleEdit handles PUT /setlists/{id}.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	setlistID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var body setlistBody
	if err := httpjson.Decode(w, r, &body); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	edit, err := body.edit()
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid arrangement id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sl, err := h.Content.EditSetlist(ctx, setlistID, userID, edit)
	if err != nil {
		if governance.IsEngineError(err) {
			httpjson.WriteEngineError(w, err)
			return
		}
		h.Log.Error("edit setlist failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, sl)
}

// HandleHistory handles GET /setlists/{id}/history.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	setlistID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	versions, err := h.Content.SetlistHistory(ctx, setlistID)
	if err != nil {
		if governance.IsEngineError(err) {
			httpjson.WriteEngineError(w, err)
			return
		}
		h.Log.Error("setlist history failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, versions)
}
