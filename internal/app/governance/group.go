// internal/app/governance/group.go
package governance

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/chordhub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/chordhub/internal/app/store/audit"
	groupstore "github.com/dalemusser/chordhub/internal/app/store/groups"
	"github.com/dalemusser/chordhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateGroup creates a group and installs the creator as its owner.
func (s *Service) CreateGroup(ctx context.Context, creatorID primitive.ObjectID, name, slug, description, joinPolicy string) (models.Group, error) {
	if joinPolicy != "" && joinPolicy != models.JoinPolicyOpen && joinPolicy != models.JoinPolicyApproval {
		return models.Group{}, fmt.Errorf("join policy %q: %w", joinPolicy, ErrInvalidState)
	}
	if slug == "" {
		slug = name
	}

	g, err := s.groups.Create(ctx, models.Group{
		Name:        name,
		Slug:        slug,
		Description: description,
		JoinPolicy:  joinPolicy,
		CreatedBy:   creatorID,
	})
	if err == groupstore.ErrDuplicateSlug {
		return models.Group{}, fmt.Errorf("group slug %q: %w", slug, ErrConflict)
	}
	if err != nil {
		return models.Group{}, err
	}

	if _, err := s.memberships.Add(ctx, models.GroupMembership{
		GroupID:  g.ID,
		UserID:   creatorID,
		Role:     models.RoleOwner,
		JoinedAt: time.Now().UTC(),
	}); err != nil {
		// Remove the half-created group so no ownerless group remains.
		if _, delErr := s.groups.Delete(ctx, g.ID); delErr != nil {
			return models.Group{}, fmt.Errorf("creating owner membership failed (%v) and cleanup failed: %w", err, delErr)
		}
		return models.Group{}, err
	}

	s.auditEvent(ctx, audit.EventGroupCreated, g.ID, &creatorID, nil,
		map[string]string{"slug": g.Slug})
	return g, nil
}

// UpdateGroup edits name/description/join policy. Owner only.
func (s *Service) UpdateGroup(ctx context.Context, groupID, actorID primitive.ObjectID, name, description, joinPolicy string) error {
	if _, err := s.loadGroup(ctx, groupID); err != nil {
		return err
	}
	actor, err := s.actorMembership(ctx, groupID, actorID)
	if err != nil {
		return err
	}
	if !grouppolicy.Resolve(actor, nil).CanEditSettings {
		return fmt.Errorf("actor %s may not edit settings of group %s: %w", actorID.Hex(), groupID.Hex(), ErrUnauthorized)
	}
	return s.groups.UpdateInfo(ctx, groupID, name, description, joinPolicy)
}

// DeleteGroup deletes a non-system group along with its memberships and
// join requests. Only the owner may delete; the system group is never
// deletable.
func (s *Service) DeleteGroup(ctx context.Context, groupID, actorID primitive.ObjectID) error {
	g, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if g.IsSystemGroup {
		return fmt.Errorf("the system group cannot be deleted: %w", ErrInvalidState)
	}

	actor, err := s.actorMembership(ctx, groupID, actorID)
	if err != nil {
		return err
	}
	if !grouppolicy.Resolve(actor, nil).CanDeleteGroup {
		return fmt.Errorf("actor %s may not delete group %s: %w", actorID.Hex(), groupID.Hex(), ErrUnauthorized)
	}

	if _, err := s.requests.DeleteByGroup(ctx, groupID); err != nil {
		return err
	}
	if _, err := s.memberships.RemoveByGroup(ctx, groupID); err != nil {
		return err
	}
	if _, err := s.groups.Delete(ctx, groupID); err != nil {
		return err
	}

	s.auditEvent(ctx, audit.EventGroupDeleted, groupID, &actorID, nil,
		map[string]string{"slug": g.Slug})
	return nil
}
