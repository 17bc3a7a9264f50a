// internal/app/content/songs.go
package content

import (
	"context"
	"fmt"

	"github.com/dalemusser/chordhub/internal/app/governance"
	"github.com/dalemusser/chordhub/internal/app/policy/contentpolicy"
	"github.com/dalemusser/chordhub/internal/app/versioning"
	"github.com/dalemusser/chordhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// SongEdit carries the editable fields of a song.
type SongEdit struct {
	Title      string
	Artist     string
	Lyrics     string
	Language   string
	ChangeNote string
}

// songVersionFields lists the content-defining fields that participate in
// version history. Derived fields (title_ci) and timestamps are excluded.
func songVersionFields(s models.Song) versioning.Fields {
	return versioning.Fields{
		"title":    s.Title,
		"artist":   s.Artist,
		"lyrics":   s.Lyrics,
		"language": s.Language,
	}
}

// CreateSong creates a user-owned song for the actor. The initial create
// writes no version; history starts with the first edit.
func (s *Service) CreateSong(ctx context.Context, actorID primitive.ObjectID, in SongEdit) (models.Song, error) {
	if actorID.IsZero() {
		return models.Song{}, fmt.Errorf("anonymous users cannot create songs: %w", governance.ErrUnauthorized)
	}
	return s.songs.Create(ctx, models.Song{
		Title:     in.Title,
		Artist:    in.Artist,
		Lyrics:    s.sanitize.Sanitize(in.Lyrics),
		Language:  in.Language,
		Ownership: models.UserOwned(actorID),
		CreatedBy: actorID,
	})
}

// EditSong applies an edit. For system-group-owned songs a version of the
// pre-edit state is recorded first, unless the versioned fields are
// unchanged.
func (s *Service) EditSong(ctx context.Context, songID, actorID primitive.ObjectID, in SongEdit) (models.Song, error) {
	song, err := s.songs.GetByID(ctx, songID)
	if err == mongo.ErrNoDocuments {
		return models.Song{}, fmt.Errorf("song %s: %w", songID.Hex(), governance.ErrNotFound)
	}
	if err != nil {
		return models.Song{}, err
	}

	if err := s.authorizeEdit(ctx, song, actorID); err != nil {
		return models.Song{}, err
	}

	in.Lyrics = s.sanitize.Sanitize(in.Lyrics)

	versioned, err := s.isVersioned(ctx, song.Ownership)
	if err != nil {
		return models.Song{}, err
	}
	if versioned {
		edited := song
		edited.Title = in.Title
		edited.Artist = in.Artist
		edited.Lyrics = in.Lyrics
		edited.Language = in.Language
		if _, _, err := s.versions.Record(ctx, models.ContentTypeSong, song.ID,
			songVersionFields(song), songVersionFields(edited), actorID, in.ChangeNote); err != nil {
			return models.Song{}, err
		}
	}

	if err := s.songs.UpdateContent(ctx, song.ID, in.Title, in.Artist, in.Lyrics, in.Language); err != nil {
		return models.Song{}, err
	}
	return s.songs.GetByID(ctx, song.ID)
}

// SongHistory returns the version history of a song, newest first.
func (s *Service) SongHistory(ctx context.Context, songID primitive.ObjectID) ([]models.ContentVersion, error) {
	return s.versions.History(ctx, models.ContentTypeSong, songID)
}

// AddSongCollaborator registers a co-author. Creator only.
func (s *Service) AddSongCollaborator(ctx context.Context, songID, actorID, collaboratorID primitive.ObjectID) error {
	song, err := s.songs.GetByID(ctx, songID)
	if err == mongo.ErrNoDocuments {
		return fmt.Errorf("song %s: %w", songID.Hex(), governance.ErrNotFound)
	}
	if err != nil {
		return err
	}
	if !contentpolicy.IsOwner(song, actorID) {
		return fmt.Errorf("only the creator may add collaborators: %w", governance.ErrUnauthorized)
	}
	return s.songs.AddCollaborator(ctx, songID, collaboratorID)
}

// DonateSongToCommunity moves a user-owned song into the system group, the
// entry point into wiki-style curation. Creator only; the song must not
// already be group-owned.
func (s *Service) DonateSongToCommunity(ctx context.Context, songID, actorID primitive.ObjectID) error {
	song, err := s.songs.GetByID(ctx, songID)
	if err == mongo.ErrNoDocuments {
		return fmt.Errorf("song %s: %w", songID.Hex(), governance.ErrNotFound)
	}
	if err != nil {
		return err
	}
	if song.Ownership.OwnerType != models.OwnerTypeUser {
		return fmt.Errorf("song %s is already group-owned: %w", songID.Hex(), governance.ErrInvalidState)
	}
	if !contentpolicy.IsOwner(song, actorID) {
		return fmt.Errorf("only the creator may donate a song: %w", governance.ErrUnauthorized)
	}

	system, err := s.systemGroup(ctx)
	if err != nil {
		return err
	}
	return s.songs.SetOwnership(ctx, songID, models.GroupOwned(system.ID))
}

// TransferSongToGroup moves a user-owned song into a group the actor
// belongs to. Creator only.
func (s *Service) TransferSongToGroup(ctx context.Context, songID, actorID, groupID primitive.ObjectID) error {
	song, err := s.songs.GetByID(ctx, songID)
	if err == mongo.ErrNoDocuments {
		return fmt.Errorf("song %s: %w", songID.Hex(), governance.ErrNotFound)
	}
	if err != nil {
		return err
	}
	if song.Ownership.OwnerType != models.OwnerTypeUser {
		return fmt.Errorf("song %s is already group-owned: %w", songID.Hex(), governance.ErrInvalidState)
	}
	if !contentpolicy.IsOwner(song, actorID) {
		return fmt.Errorf("only the creator may transfer a song: %w", governance.ErrUnauthorized)
	}

	if _, err := s.groups.GetByID(ctx, groupID); err == mongo.ErrNoDocuments {
		return fmt.Errorf("group %s: %w", groupID.Hex(), governance.ErrNotFound)
	} else if err != nil {
		return err
	}

	isMember, err := s.memberships.Exists(ctx, groupID, actorID)
	if err != nil {
		return err
	}
	if !isMember {
		return fmt.Errorf("actor %s is not a member of group %s: %w", actorID.Hex(), groupID.Hex(), governance.ErrUnauthorized)
	}

	return s.songs.SetOwnership(ctx, songID, models.GroupOwned(groupID))
}
