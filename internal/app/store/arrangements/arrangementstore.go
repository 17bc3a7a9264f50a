// internal/app/store/arrangements/arrangementstore.go
package arrangementstore

import (
	"context"
	"time"

	"github.com/dalemusser/chordhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("arrangements")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Arrangement, error) {
	var a models.Arrangement
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return models.Arrangement{}, err
	}
	return a, nil
}

func (s *Store) Create(ctx context.Context, a models.Arrangement) (models.Arrangement, error) {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Arrangement{}, err
	}
	return a, nil
}

// UpdateContent replaces the content-defining fields of an arrangement.
func (s *Store) UpdateContent(ctx context.Context, id primitive.ObjectID, name, key, chart string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"name":       name,
		"key":        key,
		"chart":      chart,
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

// SetOwnership reassigns the arrangement between user and group ownership.
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

// AddCollaborator registers a co-author on a user-owned arrangement.
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

// AddAttachment appends an uploaded sheet-music file reference.
func (s *Store) AddAttachment(ctx context.Context, id primitive.ObjectID, att models.Attachment) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$push": bson.M{"attachments": att},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
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

// ListBySong returns all arrangements of a song, newest first.
func (s *Store) ListBySong(ctx context.Context, songID primitive.ObjectID) ([]models.Arrangement, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"song_id": songID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Arrangement
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
