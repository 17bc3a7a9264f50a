// internal/app/content/setlists.go
package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/dalemusser/chordhub/internal/app/governance"
	"github.com/dalemusser/chordhub/internal/app/versioning"
	"github.com/dalemusser/chordhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetlistEdit carries the editable fields of a setlist.
type SetlistEdit struct {
	Name           string
	Notes          string
	ArrangementIDs []primitive.ObjectID
	ChangeNote     string
}

func setlistVersionFields(sl models.Setlist) versioning.Fields {
	ids := make([]string, len(sl.ArrangementIDs))
	for i, id := range sl.ArrangementIDs {
		ids[i] = id.Hex()
	}
	return versioning.Fields{
		"name":         sl.Name,
		"notes":        sl.Notes,
		"arrangements": strings.Join(ids, ","),
	}
}

// CreateSetlist creates a user-owned setlist.
func (s *Service) CreateSetlist(ctx context.Context, actorID primitive.ObjectID, in SetlistEdit) (models.Setlist, error) {
	if actorID.IsZero() {
		return models.Setlist{}, fmt.Errorf("anonymous users cannot create setlists: %w", governance.ErrUnauthorized)
	}
	return s.setlists.Create(ctx, models.Setlist{
		Name:           in.Name,
		Notes:          s.sanitize.Sanitize(in.Notes),
		ArrangementIDs: in.ArrangementIDs,
		Ownership:      models.UserOwned(actorID),
		CreatedBy:      actorID,
	})
}

// EditSetlist applies an edit, recording a pre-edit version for
// system-group-owned setlists.
func (s *Service) EditSetlist(ctx context.Context, setlistID, actorID primitive.ObjectID, in SetlistEdit) (models.Setlist, error) {
	sl, err := s.setlists.GetByID(ctx, setlistID)
	if err == mongo.ErrNoDocuments {
		return models.Setlist{}, fmt.Errorf("setlist %s: %w", setlistID.Hex(), governance.ErrNotFound)
	}
	if err != nil {
		return models.Setlist{}, err
	}

	if err := s.authorizeEdit(ctx, sl, actorID); err != nil {
		return models.Setlist{}, err
	}

	in.Notes = s.sanitize.Sanitize(in.Notes)

	versioned, err := s.isVersioned(ctx, sl.Ownership)
	if err != nil {
		return models.Setlist{}, err
	}
	if versioned {
		edited := sl
		edited.Name = in.Name
		edited.Notes = in.Notes
		edited.ArrangementIDs = in.ArrangementIDs
		if _, _, err := s.versions.Record(ctx, models.ContentTypeSetlist, sl.ID,
			setlistVersionFields(sl), setlistVersionFields(edited), actorID, in.ChangeNote); err != nil {
			return models.Setlist{}, err
		}
	}

	if err := s.setlists.UpdateContent(ctx, sl.ID, in.Name, in.Notes, in.ArrangementIDs); err != nil {
		return models.Setlist{}, err
	}
	return s.setlists.GetByID(ctx, sl.ID)
}

// SetlistHistory returns the version history, newest first.
func (s *Service) SetlistHistory(ctx context.Context, setlistID primitive.ObjectID) ([]models.ContentVersion, error) {
	return s.versions.History(ctx, models.ContentTypeSetlist, setlistID)
}
