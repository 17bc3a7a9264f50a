// internal/app/governance/transfer.go
package governance

import (
	"context"
	"fmt"

	"github.com/dalemusser/chordhub/internal/app/store/audit"
	"github.com/dalemusser/chordhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// TransferOwnership hands the owner role to an existing member of any role.
// The former owner becomes an admin with a fresh promoted_at, which places
// them at the most junior seniority position in the admin tier.
//
// The target is made owner first and the actor demoted second, so a failure
// between the writes leaves two owners rather than none; the demotion is
// then re-attempted once and any remaining inconsistency is surfaced as an
// error. A group with a transient second owner still has someone who can
// act, which a group with zero owners does not.
func (s *Service) TransferOwnership(ctx context.Context, groupID, actorID, targetUserID primitive.ObjectID) error {
	if _, err := s.loadGroup(ctx, groupID); err != nil {
		return err
	}
	actor, err := s.actorMembership(ctx, groupID, actorID)
	if err != nil {
		return err
	}
	if actor.Role != models.RoleOwner {
		return fmt.Errorf("actor %s is not the owner of group %s: %w", actorID.Hex(), groupID.Hex(), ErrUnauthorized)
	}
	if actorID == targetUserID {
		return fmt.Errorf("owner cannot transfer to themselves: %w", ErrInvalidState)
	}

	target, err := s.loadMembership(ctx, groupID, targetUserID)
	if err != nil {
		return err
	}

	prevRole := target.Role

	if err := s.memberships.SetRole(ctx, groupID, targetUserID, models.RoleOwner); err != nil {
		return err
	}
	if err := s.memberships.SetRole(ctx, groupID, actorID, models.RoleAdmin); err != nil {
		// Retry once, then roll the target back so the group is not left
		// with two owners.
		if retryErr := s.memberships.SetRole(ctx, groupID, actorID, models.RoleAdmin); retryErr != nil {
			if rbErr := s.memberships.SetRole(ctx, groupID, targetUserID, prevRole); rbErr != nil {
				s.log.Error("ownership transfer left two owners",
					zap.String("group_id", groupID.Hex()),
					zap.String("old_owner", actorID.Hex()),
					zap.String("new_owner", targetUserID.Hex()),
					zap.Error(rbErr))
				return fmt.Errorf("transfer failed and rollback failed: %v: %w", rbErr, retryErr)
			}
			return fmt.Errorf("demoting previous owner: %w", retryErr)
		}
	}

	s.auditEvent(ctx, audit.EventOwnershipTransfer, groupID, &actorID, &targetUserID,
		map[string]string{"previous_role": prevRole})
	return nil
}
