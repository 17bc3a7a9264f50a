// internal/app/store/joinrequests/requeststore.go
package requeststore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/chordhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("join_requests")}
}

// ErrDuplicatePending is returned when a user already has a pending request
// for the group. The partial unique index on (group_id, user_id) with
// status == "pending" enforces this.
var ErrDuplicatePending = errors.New("user already has a pending request for this group")

// Create inserts a new pending request.
func (s *Store) Create(ctx context.Context, groupID, userID primitive.ObjectID, message string) (models.JoinRequest, error) {
	req := models.JoinRequest{
		ID:          primitive.NewObjectID(),
		GroupID:     groupID,
		UserID:      userID,
		Status:      models.RequestPending,
		Message:     message,
		RequestedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, req); err != nil {
		if wafflemongo.IsDup(err) {
			return models.JoinRequest{}, ErrDuplicatePending
		}
		return models.JoinRequest{}, err
	}
	return req, nil
}

// GetByID loads a request by ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.JoinRequest, error) {
	var req models.JoinRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&req); err != nil {
		return models.JoinRequest{}, err
	}
	return req, nil
}

// Resolve moves a pending request to approved or rejected. The status filter
// makes the write conditional: resolving an already-resolved request matches
// nothing, which callers surface as an invalid-state error. Approved and
// rejected are terminal.
func (s *Store) Resolve(ctx context.Context, id primitive.ObjectID, status string, resolvedBy primitive.ObjectID) (bool, error) {
	if status != models.RequestApproved && status != models.RequestRejected {
		return false, errors.New(`status must be "approved" or "rejected"`)
	}
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.RequestPending},
		bson.M{"$set": bson.M{
			"status":      status,
			"resolved_by": resolvedBy,
			"resolved_at": now,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// DeletePending removes the requester's own pending request (withdrawal).
// Returns the number of documents deleted (0 or 1).
func (s *Store) DeletePending(ctx context.Context, groupID, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{
		"group_id": groupID,
		"user_id":  userID,
		"status":   models.RequestPending,
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByGroup removes all requests for a group (used on group delete).
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListPending returns pending requests for a group, oldest first.
func (s *Store) ListPending(ctx context.Context, groupID primitive.ObjectID) ([]models.JoinRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "requested_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID, "status": models.RequestPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.JoinRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// HasPending reports whether the user has a pending request for the group.
func (s *Store) HasPending(ctx context.Context, groupID, userID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"group_id": groupID,
		"user_id":  userID,
		"status":   models.RequestPending,
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
