// internal/app/governance/roles.go
package governance

import (
	"context"
	"fmt"

	"github.com/dalemusser/chordhub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/chordhub/internal/app/store/audit"
	"github.com/dalemusser/chordhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PromoteToAdmin promotes a plain member to admin and stamps promoted_at,
// placing them at the most junior seniority position. Fails with
// ErrInvalidState if the target is already an admin or the owner.
func (s *Service) PromoteToAdmin(ctx context.Context, groupID, actorID, targetUserID primitive.ObjectID) error {
	if _, err := s.loadGroup(ctx, groupID); err != nil {
		return err
	}
	actor, err := s.actorMembership(ctx, groupID, actorID)
	if err != nil {
		return err
	}
	target, err := s.loadMembership(ctx, groupID, targetUserID)
	if err != nil {
		return err
	}

	if target.Role != models.RoleMember {
		return fmt.Errorf("user %s is already %s: %w", targetUserID.Hex(), target.Role, ErrInvalidState)
	}
	if !grouppolicy.Resolve(actor, target).CanPromote {
		return fmt.Errorf("actor %s may not promote user %s: %w", actorID.Hex(), targetUserID.Hex(), ErrUnauthorized)
	}

	if err := s.memberships.SetRole(ctx, groupID, targetUserID, models.RoleAdmin); err != nil {
		return err
	}
	s.auditEvent(ctx, audit.EventMemberPromoted, groupID, &actorID, &targetUserID, nil)
	return nil
}

// DemoteAdmin demotes an admin back to plain member and clears promoted_at.
// An admin can demote another admin only when strictly more senior.
func (s *Service) DemoteAdmin(ctx context.Context, groupID, actorID, targetUserID primitive.ObjectID) error {
	if _, err := s.loadGroup(ctx, groupID); err != nil {
		return err
	}
	actor, err := s.actorMembership(ctx, groupID, actorID)
	if err != nil {
		return err
	}
	target, err := s.loadMembership(ctx, groupID, targetUserID)
	if err != nil {
		return err
	}

	if target.Role != models.RoleAdmin {
		return fmt.Errorf("user %s is %s, not an admin: %w", targetUserID.Hex(), target.Role, ErrInvalidState)
	}
	if !grouppolicy.Resolve(actor, target).CanDemote {
		return fmt.Errorf("actor %s may not demote admin %s: %w", actorID.Hex(), targetUserID.Hex(), ErrUnauthorized)
	}

	if err := s.memberships.SetRole(ctx, groupID, targetUserID, models.RoleMember); err != nil {
		return err
	}
	s.auditEvent(ctx, audit.EventAdminDemoted, groupID, &actorID, &targetUserID, nil)
	return nil
}

// RemoveMember deletes the target's membership. The owner can never be
// removed directly; ownership must be transferred first (ErrConflict).
func (s *Service) RemoveMember(ctx context.Context, groupID, actorID, targetUserID primitive.ObjectID) error {
	if _, err := s.loadGroup(ctx, groupID); err != nil {
		return err
	}
	actor, err := s.actorMembership(ctx, groupID, actorID)
	if err != nil {
		return err
	}
	target, err := s.loadMembership(ctx, groupID, targetUserID)
	if err != nil {
		return err
	}

	if target.Role == models.RoleOwner {
		return fmt.Errorf("the owner cannot be removed; transfer ownership first: %w", ErrConflict)
	}
	if !grouppolicy.Resolve(actor, target).CanRemove {
		return fmt.Errorf("actor %s may not remove user %s: %w", actorID.Hex(), targetUserID.Hex(), ErrUnauthorized)
	}

	deleted, err := s.memberships.Remove(ctx, groupID, targetUserID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return fmt.Errorf("membership of user %s vanished: %w", targetUserID.Hex(), ErrNotFound)
	}
	s.auditEvent(ctx, audit.EventMemberRemoved, groupID, &actorID, &targetUserID, nil)
	return nil
}
