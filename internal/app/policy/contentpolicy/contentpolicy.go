// internal/app/policy/contentpolicy.go

// Package contentpolicy decides who may edit a content item (song,
// arrangement, or setlist) based on its ownership record.
//
// Rules:
//   - User-owned content: the creator and registered collaborators may edit.
//   - Group-owned content: any member of the owning group may edit,
//     whatever their governance role. Governance seniority matters only for
//     group management, never for content edits.
//   - Anonymous actors are always denied.
package contentpolicy

import (
	"context"

	membershipstore "github.com/dalemusser/chordhub/internal/app/store/memberships"
	"github.com/dalemusser/chordhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Content is the slice of a content item the policy needs. The songs,
// arrangements, and setlists models all implement it.
type Content interface {
	ContentOwnership() models.Ownership
	Creator() primitive.ObjectID
	CollaboratorIDs() []primitive.ObjectID
}

// CanEdit reports whether userID may edit the content item. The database is
// consulted only for group-owned content, to check membership in the owning
// group. Returns an error only if that lookup fails, so callers can
// distinguish "not authorized" (false, nil) from "database error".
func CanEdit(ctx context.Context, db *mongo.Database, c Content, userID primitive.ObjectID) (bool, error) {
	if userID.IsZero() {
		return false, nil
	}

	o := c.ContentOwnership()
	switch o.OwnerType {
	case models.OwnerTypeGroup:
		groupID, ok := o.GroupID()
		if !ok {
			return false, nil
		}
		return membershipstore.New(db).Exists(ctx, groupID, userID)

	case models.OwnerTypeUser:
		if c.Creator() == userID {
			return true, nil
		}
		for _, collab := range c.CollaboratorIDs() {
			if collab == userID {
				return true, nil
			}
		}
		return false, nil

	default:
		return false, nil
	}
}

// IsOwner reports whether userID is the literal creator of the content.
// Narrower than CanEdit; used for owner-only affordances (deleting,
// transferring ownership), not for edit permission.
func IsOwner(c Content, userID primitive.ObjectID) bool {
	if userID.IsZero() {
		return false
	}
	return c.Creator() == userID
}
