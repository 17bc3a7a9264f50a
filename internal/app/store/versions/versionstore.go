// internal/app/store/versions/versionstore.go
package versionstore

import (
	"context"
	"errors"

	"github.com/dalemusser/chordhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the append-only history of content versions. Documents are never
// updated or deleted; the unique (content_type, content_id, version) index
// rejects concurrent double-appends of the same version number.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("content_versions")}
}

// ErrVersionExists is returned when the version number was already taken,
// which happens only when two edits race on the same content item.
var ErrVersionExists = errors.New("version number already recorded for this content")

// Latest returns the newest version for a content item.
// Returns mongo.ErrNoDocuments if no versions exist yet.
func (s *Store) Latest(ctx context.Context, contentType string, contentID primitive.ObjectID) (models.ContentVersion, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "version", Value: -1}})
	var v models.ContentVersion
	err := s.c.FindOne(ctx, bson.M{
		"content_type": contentType,
		"content_id":   contentID,
	}, opts).Decode(&v)
	if err != nil {
		return models.ContentVersion{}, err
	}
	return v, nil
}

// Append inserts a new version record. The caller assigns the version
// number (latest + 1).
func (s *Store) Append(ctx context.Context, v models.ContentVersion) (models.ContentVersion, error) {
	v.ID = primitive.NewObjectID()
	if _, err := s.c.InsertOne(ctx, v); err != nil {
		if wafflemongo.IsDup(err) {
			return models.ContentVersion{}, ErrVersionExists
		}
		return models.ContentVersion{}, err
	}
	return v, nil
}

// ListByContent returns all versions of a content item, newest first.
func (s *Store) ListByContent(ctx context.Context, contentType string, contentID primitive.ObjectID) ([]models.ContentVersion, error) {
	opts := options.Find().SetSort(bson.D{{Key: "version", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{
		"content_type": contentType,
		"content_id":   contentID,
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ContentVersion
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByContent returns the number of stored versions for a content item.
func (s *Store) CountByContent(ctx context.Context, contentType string, contentID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"content_type": contentType,
		"content_id":   contentID,
	})
}
