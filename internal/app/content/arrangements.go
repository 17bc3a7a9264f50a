// internal/app/content/arrangements.go
package content

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dalemusser/chordhub/internal/app/governance"
	"github.com/dalemusser/chordhub/internal/app/versioning"
	"github.com/dalemusser/chordhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ArrangementEdit carries the editable fields of an arrangement.
type ArrangementEdit struct {
	Name       string
	Key        string
	Chart      string
	ChangeNote string
}

func arrangementVersionFields(a models.Arrangement) versioning.Fields {
	return versioning.Fields{
		"name":  a.Name,
		"key":   a.Key,
		"chart": a.Chart,
	}
}

// CreateArrangement creates a user-owned arrangement of a song.
func (s *Service) CreateArrangement(ctx context.Context, songID, actorID primitive.ObjectID, in ArrangementEdit) (models.Arrangement, error) {
	if actorID.IsZero() {
		return models.Arrangement{}, fmt.Errorf("anonymous users cannot create arrangements: %w", governance.ErrUnauthorized)
	}
	if _, err := s.songs.GetByID(ctx, songID); err == mongo.ErrNoDocuments {
		return models.Arrangement{}, fmt.Errorf("song %s: %w", songID.Hex(), governance.ErrNotFound)
	} else if err != nil {
		return models.Arrangement{}, err
	}

	return s.arrangements.Create(ctx, models.Arrangement{
		SongID:    songID,
		Name:      in.Name,
		Key:       in.Key,
		Chart:     s.sanitize.Sanitize(in.Chart),
		Ownership: models.UserOwned(actorID),
		CreatedBy: actorID,
	})
}

// EditArrangement applies an edit, recording a pre-edit version for
// system-group-owned arrangements.
func (s *Service) EditArrangement(ctx context.Context, arrangementID, actorID primitive.ObjectID, in ArrangementEdit) (models.Arrangement, error) {
	a, err := s.arrangements.GetByID(ctx, arrangementID)
	if err == mongo.ErrNoDocuments {
		return models.Arrangement{}, fmt.Errorf("arrangement %s: %w", arrangementID.Hex(), governance.ErrNotFound)
	}
	if err != nil {
		return models.Arrangement{}, err
	}

	if err := s.authorizeEdit(ctx, a, actorID); err != nil {
		return models.Arrangement{}, err
	}

	in.Chart = s.sanitize.Sanitize(in.Chart)

	versioned, err := s.isVersioned(ctx, a.Ownership)
	if err != nil {
		return models.Arrangement{}, err
	}
	if versioned {
		edited := a
		edited.Name = in.Name
		edited.Key = in.Key
		edited.Chart = in.Chart
		if _, _, err := s.versions.Record(ctx, models.ContentTypeArrangement, a.ID,
			arrangementVersionFields(a), arrangementVersionFields(edited), actorID, in.ChangeNote); err != nil {
			return models.Arrangement{}, err
		}
	}

	if err := s.arrangements.UpdateContent(ctx, a.ID, in.Name, in.Key, in.Chart); err != nil {
		return models.Arrangement{}, err
	}
	return s.arrangements.GetByID(ctx, a.ID)
}

// ArrangementHistory returns the version history, newest first.
func (s *Service) ArrangementHistory(ctx context.Context, arrangementID primitive.ObjectID) ([]models.ContentVersion, error) {
	return s.versions.History(ctx, models.ContentTypeArrangement, arrangementID)
}

// AttachSheetMusic records an uploaded file on an arrangement under a
// collision-free generated name. The file bytes themselves are stored by
// the caller's storage backend; this engine tracks only the reference.
func (s *Service) AttachSheetMusic(ctx context.Context, arrangementID, actorID primitive.ObjectID, filename string, size int64) (models.Attachment, error) {
	a, err := s.arrangements.GetByID(ctx, arrangementID)
	if err == mongo.ErrNoDocuments {
		return models.Attachment{}, fmt.Errorf("arrangement %s: %w", arrangementID.Hex(), governance.ErrNotFound)
	}
	if err != nil {
		return models.Attachment{}, err
	}

	if err := s.authorizeEdit(ctx, a, actorID); err != nil {
		return models.Attachment{}, err
	}

	att := models.Attachment{
		Name:       filepath.Base(filename),
		StoredName: fmt.Sprintf("%s%s", uuid.New().String()[:8], filepath.Ext(filename)),
		Size:       size,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.arrangements.AddAttachment(ctx, a.ID, att); err != nil {
		return models.Attachment{}, err
	}
	return att, nil
}
