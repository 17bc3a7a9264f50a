// internal/app/features/songs/handler.go
package songs

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/chordhub/internal/app/content"
	"github.com/dalemusser/chordhub/internal/app/governance"
	songstore "github.com/dalemusser/chordhub/internal/app/store/songs"
	"github.com/dalemusser/chordhub/internal/app/system/authz"
	"github.com/dalemusser/chordhub/internal/app/system/httpjson"
	"github.com/dalemusser/chordhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Content *content.Service
	Songs   *songstore.Store
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Content: content.NewService(db, logger),
		Songs:   songstore.New(db),
		Log:     logger,
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

type songBody struct {
	Title      string `json:"title"`
	Artist     string `json:"artist,omitempty"`
	Lyrics     string `json:"lyrics,omitempty"`
	Language   string `json:"language,omitempty"`
	ChangeNote string `json:"change_note,omitempty"`
}

func (b songBody) edit() content.SongEdit {
	return content.SongEdit{
		Title:      b.Title,
		Artist:     b.Artist,
		Lyrics:     b.Lyrics,
		Language:   b.Language,
		ChangeNote: b.ChangeNote,
	}
}

// HandleCreate handles POST /songs. New songs are owned by their creator.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body songBody
	if err := httpjson.Decode(w, r, &body); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Title == "" {
		httpjson.Error(w, http.StatusBadRequest, "title is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	song, err := h.Content.CreateSong(ctx, userID, body.edit())
	if err != nil {
		h.Log.Error("create song failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusCreated, song)
}

// HandleGet handles GET /songs/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	songID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	song, err := h.Songs.GetByID(ctx, songID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusNotFound, "song not found")
			return
		}
		h.Log.Error("get song failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, song)
}

// HandleList handles GET /songs.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	songs, err := h.Songs.List(ctx, 200)
	if err != nil {
		h.Log.Error("list songs failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, songs)
}

// HandleEdit handles PUT /songs/{id}. Community-owned songs get a version
// snapshot of the pre-edit state before the update lands.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	songID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var body songBody
	if err := httpjson.Decode(w, r, &body); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	song, err := h.Content.EditSong(ctx, songID, userID, body.edit())
	if err != nil {
		if governance.IsEngineError(err) {
			httpjson.WriteEngineError(w, err)
			return
		}
		h.Log.Error("edit song failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, song)
}

// HandleHistory handles GET /songs/{id}/history. Only community-owned
// songs accrue versions, so the list may be empty.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	songID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	versions, err := h.Content.SongHistory(ctx, songID)
	if err != nil {
		if governance.IsEngineError(err) {
			httpjson.WriteEngineError(w, err)
			return
		}
		h.Log.Error("song history failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, versions)
}

type collaboratorBody struct {
	UserID string `json:"user_id"`
}

// HandleAddCollaborator handles POST /songs/{id}/collaborators.
func (h *Handler) HandleAddCollaborator(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	songID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var body collaboratorBody
	if err := httpjson.Decode(w, r, &body); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	collabID, err := primitive.ObjectIDFromHex(body.UserID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid user_id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Content.AddSongCollaborator(ctx, songID, userID, collabID); err != nil {
		if governance.IsEngineError(err) {
			httpjson.WriteEngineError(w, err)
			return
		}
		h.Log.Error("add collaborator failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "added"})
}

// HandleDonate handles POST /songs/{id}/donate. Transfers the song to the
// community group; subsequent edits are versioned.
func (h *Handler) HandleDonate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	songID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Content.DonateSongToCommunity(ctx, songID, userID); err != nil {
		if governance.IsEngineError(err) {
			httpjson.WriteEngineError(w, err)
			return
		}
		h.Log.Error("donate song failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "donated"})
}

// HandleTransferToGroup handles POST /songs/{id}/transfer/{groupID}.
func (h *Handler) HandleTransferToGroup(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	songID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	groupID, ok := pathID(w, r, "groupID")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Content.TransferSongToGroup(ctx, songID, userID, groupID); err != nil {
		if governance.IsEngineError(err) {
			httpjson.WriteEngineError(w, err)
			return
		}
		h.Log.Error("transfer song failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "transferred"})
}
