// internal/app/governance/leave.go
package governance

import (
	"context"
	"fmt"

	"github.com/dalemusser/chordhub/internal/app/store/audit"
	"github.com/dalemusser/chordhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// LeaveGroup removes the actor's own membership. A departing owner triggers
// succession: the most senior admin (earliest promoted_at) becomes owner;
// if the group has no admins, the longest-tenured member (earliest
// joined_at) does.
//
// When the owner is the only member there is no successor. Policy:
//   - System group: leaving is blocked entirely (ErrInvalidState); the
//     community group must never be orphaned.
//   - Any other group: the group is deleted along with its membership and
//     any pending join requests. An empty, ownerless group has no one left
//     who could govern or even see it.
func (s *Service) LeaveGroup(ctx context.Context, groupID, actorID primitive.ObjectID) error {
	g, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return err
	}
	actor, err := s.loadMembership(ctx, groupID, actorID)
	if err != nil {
		return err
	}

	if actor.Role != models.RoleOwner {
		deleted, err := s.memberships.Remove(ctx, groupID, actorID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return fmt.Errorf("membership of user %s vanished: %w", actorID.Hex(), ErrNotFound)
		}
		s.auditEvent(ctx, audit.EventMemberLeft, groupID, &actorID, &actorID, nil)
		return nil
	}

	successor, err := s.findSuccessor(ctx, groupID, actorID)
	if err != nil {
		return err
	}

	if successor == nil {
		if g.IsSystemGroup {
			return fmt.Errorf("the owner of the system group cannot leave without a successor: %w", ErrInvalidState)
		}
		// Sole member leaving a regular group: dissolve the group.
		if _, err := s.requests.DeleteByGroup(ctx, groupID); err != nil {
			return err
		}
		if _, err := s.memberships.Remove(ctx, groupID, actorID); err != nil {
			return err
		}
		if _, err := s.groups.Delete(ctx, groupID); err != nil {
			return err
		}
		s.auditEvent(ctx, audit.EventGroupDeleted, groupID, &actorID, nil,
			map[string]string{"reason": "sole owner left"})
		return nil
	}

	// Promote the successor before deleting the departing owner, so the
	// group is never observably ownerless.
	if err := s.memberships.SetRole(ctx, groupID, successor.UserID, models.RoleOwner); err != nil {
		return err
	}
	if _, err := s.memberships.Remove(ctx, groupID, actorID); err != nil {
		return err
	}

	s.auditEvent(ctx, audit.EventMemberLeft, groupID, &actorID, &actorID, nil)
	s.auditEvent(ctx, audit.EventOwnerSucceeded, groupID, &actorID, &successor.UserID,
		map[string]string{"previous_role": successor.Role})
	return nil
}

// findSuccessor picks the next owner: most senior admin first, then the
// longest-tenured member. Returns nil when the departing owner is alone.
func (s *Service) findSuccessor(ctx context.Context, groupID, departingOwnerID primitive.ObjectID) (*models.GroupMembership, error) {
	admin, err := s.memberships.MostSeniorAdmin(ctx, groupID)
	if err == nil {
		return admin, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	member, err := s.memberships.LongestTenuredMember(ctx, groupID, departingOwnerID)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return member, nil
}
