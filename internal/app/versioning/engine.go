// internal/app/versioning/engine.go
package versioning

import (
	"context"
	"time"

	versionstore "github.com/dalemusser/chordhub/internal/app/store/versions"
	"github.com/dalemusser/chordhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Engine appends content versions conditionally. Callers invoke Record with
// the pre-edit field values before applying their mutation; the engine
// compares against the last stored snapshot and appends only on real change.
type Engine struct {
	store *versionstore.Store
	log   *zap.Logger
}

func NewEngine(db *mongo.Database, logger *zap.Logger) *Engine {
	return &Engine{
		store: versionstore.New(db),
		log:   logger,
	}
}

// Record compares pre (the persisted, pre-edit field values) against post
// (the field values the edit would produce) and appends a new version only
// when they differ. A resave or metadata-only touch leaves no history. The
// stored snapshot is always the pre-edit state; the first real change to an
// item records version 1. Returns the version written and whether a write
// happened.
//
// Record must be called before the mutation is applied.
func (e *Engine) Record(ctx context.Context, contentType string, contentID primitive.ObjectID, pre, post Fields, changedBy primitive.ObjectID, description string) (models.ContentVersion, bool, error) {
	if Equal(pre, post) {
		return models.ContentVersion{}, false, nil
	}

	next := int64(1)
	last, err := e.store.Latest(ctx, contentType, contentID)
	switch {
	case err == mongo.ErrNoDocuments:
		// No history yet; write version 1.
	case err != nil:
		return models.ContentVersion{}, false, err
	default:
		next = last.Version + 1
	}

	v, err := e.store.Append(ctx, models.ContentVersion{
		ContentType: contentType,
		ContentID:   contentID,
		Version:     next,
		Snapshot:    map[string]string(pre),
		ChangedBy:   changedBy,
		ChangedAt:   time.Now().UTC(),
		Description: description,
	})
	if err != nil {
		return models.ContentVersion{}, false, err
	}

	e.log.Info("content version recorded",
		zap.String("content_type", contentType),
		zap.String("content_id", contentID.Hex()),
		zap.Int64("version", v.Version),
		zap.String("changed_by", changedBy.Hex()))

	return v, true, nil
}

// History returns all versions of a content item, newest first.
func (e *Engine) History(ctx context.Context, contentType string, contentID primitive.ObjectID) ([]models.ContentVersion, error) {
	return e.store.ListByContent(ctx, contentType, contentID)
}
