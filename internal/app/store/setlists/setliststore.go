// internal/app/store/setlists/setliststore.go
package setliststore

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
	return &Store{c: db.Collection("setlists")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Setlist, error) {
	var sl models.Setlist
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sl); err != nil {
		return models.Setlist{}, err
	}
	return sl, nil
}

func (s *Store) Create(ctx context.Context, sl models.Setlist) (models.Setlist, error) {
	now := time.Now().UTC()
	sl.ID = primitive.NewObjectID()
	sl.CreatedAt = now
	sl.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, sl); err != nil {
		return models.Setlist{}, err
	}
	return sl, nil
}

// UpdateContent replaces the content-defining fields of a setlist,
// including the ordered arrangement list.
func (s *Store) UpdateContent(ctx context.Context, id primitive.ObjectID, name, notes string, arrangementIDs []primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"name":            name,
		"notes":           notes,
		"arrangement_ids": arrangementIDs,
		"updated_at":      time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetOwnership reassigns the setlist between user and group ownership.
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

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByUser returns setlists the user created, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Setlist, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"created_by": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Setlist
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
