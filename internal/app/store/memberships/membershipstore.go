// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"sort"
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
	return &Store{c: db.Collection("group_memberships")}
}

var (
	ErrDuplicateMembership = errors.New("user is already a member of this group")

	errBadRole = errors.New(`role must be "owner", "admin", or "member"`)
)

// Get loads the membership for (groupID, userID).
// Returns mongo.ErrNoDocuments if the user is not a member.
func (s *Store) Get(ctx context.Context, groupID, userID primitive.ObjectID) (*models.GroupMembership, error) {
	var m models.GroupMembership
	err := s.c.FindOne(ctx, bson.M{"group_id": groupID, "user_id": userID}).Decode(&m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Add creates a membership document. The (group_id, user_id) unique index
// rejects duplicates.
func (s *Store) Add(ctx context.Context, m models.GroupMembership) (models.GroupMembership, error) {
	switch m.Role {
	case models.RoleOwner, models.RoleAdmin, models.RoleMember:
	default:
		return models.GroupMembership{}, errBadRole
	}
	m.ID = primitive.NewObjectID()
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.GroupMembership{}, ErrDuplicateMembership
		}
		return models.GroupMembership{}, err
	}
	return m, nil
}

// Remove deletes the membership document for (groupID, userID).
// Returns the number of documents deleted (0 or 1).
func (s *Store) Remove(ctx context.Context, groupID, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"group_id": groupID, "user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// RemoveByGroup deletes all memberships of a group (used on group delete).
func (s *Store) RemoveByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// SetRole updates the role of a membership and stamps or clears promoted_at:
// promoting to admin sets it, any other role unsets it (the owner and plain
// members carry no seniority key).
func (s *Store) SetRole(ctx context.Context, groupID, userID primitive.ObjectID, role string) error {
	switch role {
	case models.RoleOwner, models.RoleAdmin, models.RoleMember:
	default:
		return errBadRole
	}
	update := bson.M{"$set": bson.M{"role": role}}
	if role == models.RoleAdmin {
		update["$set"].(bson.M)["promoted_at"] = time.Now().UTC()
	} else {
		update["$unset"] = bson.M{"promoted_at": ""}
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"group_id": groupID, "user_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Owner returns the group's owner membership.
func (s *Store) Owner(ctx context.Context, groupID primitive.ObjectID) (*models.GroupMembership, error) {
	var m models.GroupMembership
	err := s.c.FindOne(ctx, bson.M{"group_id": groupID, "role": models.RoleOwner}).Decode(&m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// MostSeniorAdmin returns the admin with the earliest promoted_at, or
// mongo.ErrNoDocuments if the group has no admins. Admins missing the
// promoted_at stamp are skipped: a missing field sorts before every date,
// which would otherwise rank an unstamped admin as the most senior.
func (s *Store) MostSeniorAdmin(ctx context.Context, groupID primitive.ObjectID) (*models.GroupMembership, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "promoted_at", Value: 1}})
	var m models.GroupMembership
	err := s.c.FindOne(ctx, bson.M{
		"group_id":    groupID,
		"role":        models.RoleAdmin,
		"promoted_at": bson.M{"$exists": true},
	}, opts).Decode(&m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// LongestTenuredMember returns the non-owner member with the earliest
// joined_at, excluding the given user. Used for owner succession when the
// group has no admins.
func (s *Store) LongestTenuredMember(ctx context.Context, groupID, excludeUserID primitive.ObjectID) (*models.GroupMembership, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "joined_at", Value: 1}})
	var m models.GroupMembership
	err := s.c.FindOne(ctx, bson.M{
		"group_id": groupID,
		"user_id":  bson.M{"$ne": excludeUserID},
		"role":     bson.M{"$ne": models.RoleOwner},
	}, opts).Decode(&m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByGroup returns all memberships of a group, owner first, then admins
// by seniority, then members by tenure.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.GroupMembership, error) {
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var all []models.GroupMembership
	if err := cur.All(ctx, &all); err != nil {
		return nil, err
	}
	sortMemberships(all)
	return all, nil
}

// ListByUser returns all of a user's memberships.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.GroupMembership, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var all []models.GroupMembership
	if err := cur.All(ctx, &all); err != nil {
		return nil, err
	}
	return all, nil
}

// CountByGroup returns the number of members in a group (all roles).
func (s *Store) CountByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"group_id": groupID})
}

// Exists reports whether (groupID, userID) has any membership role.
func (s *Store) Exists(ctx context.Context, groupID, userID primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"group_id": groupID, "user_id": userID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func roleRank(role string) int {
	switch role {
	case models.RoleOwner:
		return 0
	case models.RoleAdmin:
		return 1
	default:
		return 2
	}
}

// sortMemberships orders owner first, admins by promoted_at ascending,
// then members by joined_at ascending.
func sortMemberships(ms []models.GroupMembership) {
	sort.SliceStable(ms, func(i, j int) bool {
		return lessMembership(ms[i], ms[j])
	})
}

func lessMembership(a, b models.GroupMembership) bool {
	ra, rb := roleRank(a.Role), roleRank(b.Role)
	if ra != rb {
		return ra < rb
	}
	if a.Role == models.RoleAdmin && a.PromotedAt != nil && b.PromotedAt != nil {
		return a.PromotedAt.Before(*b.PromotedAt)
	}
	return a.JoinedAt.Before(b.JoinedAt)
}
