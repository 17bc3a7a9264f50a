// internal/app/features/arrangements/handler.go
package arrangements

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dalemusser/chordhub/internal/app/content"
	"github.com/dalemusser/chordhub/internal/app/governance"
	arrangementstore "github.com/dalemusser/chordhub/internal/app/store/arrangements"
	"github.com/dalemusser/chordhub/internal/app/system/authz"
	"github.com/dalemusser/chordhub/internal/app/system/httpjson"
	"github.com/dalemusser/chordhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const maxSheetBytes = 20 << 20 // 20 MiB

type Handler struct {
	Content      *content.Service
	Arrangements *arrangementstore.Store
	UploadPath   string
	Log          *zap.Logger
}

func NewHandler(db *mongo.Database, uploadPath string, logger *zap.Logger) *Handler {
	return &Handler{
		Content:      content.NewService(db, logger),
		Arrangements: arrangementstore.New(db),
		UploadPath:   uploadPath,
		Log:          logger,
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

type arrangementBody struct {
	SongID     string `json:"song_id,omitempty"`
	Name       string `json:"name"`
	Key        string `json:"key,omitempty"`
	Chart      string `json:"chart,omitempty"`
	ChangeNote string `json:"change_note,omitempty"`
}

func (b arrangementBody) edit() content.ArrangementEdit {
	return content.ArrangementEdit{
		Name:       b.Name,
		Key:        b.Key,
		Chart:      b.Chart,
		ChangeNote: b.ChangeNote,
	}
}

// HandleCreate handles POST /arrangements. The song_id field names the
// song being arranged.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body arrangementBody
	if err := httpjson.Decode(w, r, &body); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	songID, err := primitive.ObjectIDFromHex(body.SongID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid song_id")
		return
	}
	if body.Name == "" {
		httpjson.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, err := h.Content.CreateArrangement(ctx, songID, userID, body.edit())
	if err != nil {
		if governance.IsEngineError(err) {
			httpjson.WriteEngineError(w, err)
			return
		}
		h.Log.Error("create arrangement failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusCreated, a)
}

// HandleGet handles GET /arrangements/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	arrangementID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Arrangements.GetByID(ctx, arrangementID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "arrangement not found")
			return
		}
		h.Log.Error("get arrangement failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, a)
}

// HandleListBySong handles GET /arrangements?song={id}.
func (h *Handler) HandleListBySong(w http.ResponseWriter, r *http.Request) {
	songID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("song"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "song query parameter is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	as, err := h.Arrangements.ListBySong(ctx, songID)
	if err != nil {
		h.Log.Error("list arrangements failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, as)
}

// HandleEdit handles PUT /arrangements/{id}.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	arrangementID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var body arrangementBody
	if err := httpjson.Decode(w, r, &body); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, err := h.Content.EditArrangement(ctx, arrangementID, userID, body.edit())
	if err != nil {
		if governance.IsEngineError(err) {
			httpjson.WriteEngineError(w, err)
			return
		}
		h.Log.Error("edit arrangement failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, a)
}

// HandleHistory handles GET /arrangements/{id}/history.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	arrangementID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	versions, err := h.Content.ArrangementHistory(ctx, arrangementID)
	if err != nil {
		if governance.IsEngineError(err) {
			httpjson.WriteEngineError(w, err)
			return
		}
		h.Log.Error("arrangement history failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, versions)
}

// HandleUploadSheet handles POST /arrangements/{id}/sheet. Multipart
// upload; the file lands in UploadPath under a generated name and the
// arrangement records the attachment.
func (h *Handler) HandleUploadSheet(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	arrangementID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxSheetBytes); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("sheet")
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "sheet file is required")
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	att, err := h.Content.AttachSheetMusic(ctx, arrangementID, userID, header.Filename, header.Size)
	if err != nil {
		if governance.IsEngineError(err) {
			httpjson.WriteEngineError(w, err)
			return
		}
		h.Log.Error("attach sheet failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	dst, err := os.Create(filepath.Join(h.UploadPath, att.StoredName))
	if err != nil {
		h.Log.Error("sheet write failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		h.Log.Error("sheet write failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpjson.Write(w, http.StatusCreated, att)
}
