// internal/app/store/songs/songstore.go
package songstore

import (
	"context"
	"time"

	"github.com/dalemusser/chordhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("songs")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Song, error) {
	var song models.Song
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&song); err != nil {
		return models.Song{}, err
	}
	return song, nil
}

func (s *Store) Create(ctx context.Context, song models.Song) (models.Song, error) {
	now := time.Now().UTC()
	song.ID = primitive.NewObjectID()
	song.TitleCI = text.Fold(song.Title)
	song.CreatedAt = now
	song.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, song); err != nil {
		return models.Song{}, err
	}
	return song, nil
}

// UpdateContent replaces the content-defining fields of a song.
// Derived fields (title_ci, updated_at) are refreshed alongside.
func (s *Store) UpdateContent(ctx context.Context, id primitive.ObjectID, title, artist, lyrics, language string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"title":      title,
		"title_ci":   text.Fold(title),
		"artist":     artist,
		"lyrics":     lyrics,
		"language":   language,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetOwnership reassigns the song between user and group ownership.
func (s *Store) SetOwnership(ctx context.Context, id primitive.ObjectID, o models.Ownership) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"ownership":  o,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AddCollaborator registers a co-author on a user-owned song.
func (s *Store) AddCollaborator(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"collaborators": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns songs ordered by folded title.
func (s *Store) List(ctx context.Context, limit int64) ([]models.Song, error) {
	opts := options.Find().SetSort(bson.D{{Key: "title_ci", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Song
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByOwner returns songs under a specific ownership record.
func (s *Store) ListByOwner(ctx context.Context, o models.Ownership) ([]models.Song, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"ownership.owner_type": o.OwnerType,
		"ownership.owner_id":   o.OwnerID,
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Song
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
