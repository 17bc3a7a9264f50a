// internal/app/governance/service.go

// Package governance executes group-governance actions: joining, approving
// requests, promoting and demoting admins, removing members, transferring
// ownership, and owner succession. Pure permission decisions live in
// policy/grouppolicy; this package loads state, consults the policy, and
// applies the mutation. Each operation validates every precondition before
// writing, so a failed call leaves no partial state behind.
//
// Cross-record invariants ("exactly one owner", "at most one pending
// request") are enforced by precondition checks at call time plus unique
// indexes, not by multi-document transactions. Contention on a single
// group's membership is expected to be low; the check-then-write window is
// accepted (see DESIGN.md).
package governance

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/chordhub/internal/app/store/audit"
	groupstore "github.com/dalemusser/chordhub/internal/app/store/groups"
	requeststore "github.com/dalemusser/chordhub/internal/app/store/joinrequests"
	membershipstore "github.com/dalemusser/chordhub/internal/app/store/memberships"
	"github.com/dalemusser/chordhub/internal/app/system/auditlog"
	"github.com/dalemusser/chordhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Service executes governance actions against the document store.
type Service struct {
	groups      *groupstore.Store
	memberships *membershipstore.Store
	requests    *requeststore.Store

	log   *zap.Logger
	audit *auditlog.Logger
}

// New constructs a governance Service. The audit logger may be nil, in
// which case audit events are dropped.
func New(db *mongo.Database, logger *zap.Logger, auditLog *auditlog.Logger) *Service {
	return &Service{
		groups:      groupstore.New(db),
		memberships: membershipstore.New(db),
		requests:    requeststore.New(db),
		log:         logger,
		audit:       auditLog,
	}
}

// loadGroup translates store lookups into the engine taxonomy.
func (s *Service) loadGroup(ctx context.Context, groupID primitive.ObjectID) (models.Group, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err == mongo.ErrNoDocuments {
		return models.Group{}, fmt.Errorf("group %s: %w", groupID.Hex(), ErrNotFound)
	}
	if err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// loadMembership returns the actor's or target's membership, or ErrNotFound.
func (s *Service) loadMembership(ctx context.Context, groupID, userID primitive.ObjectID) (*models.GroupMembership, error) {
	m, err := s.memberships.Get(ctx, groupID, userID)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("membership of user %s in group %s: %w", userID.Hex(), groupID.Hex(), ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// actorMembership loads the actor's membership but maps absence to
// ErrUnauthorized: a non-member actor is an authorization failure, not a
// missing record.
func (s *Service) actorMembership(ctx context.Context, groupID, actorID primitive.ObjectID) (*models.GroupMembership, error) {
	m, err := s.memberships.Get(ctx, groupID, actorID)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("actor %s is not a member of group %s: %w", actorID.Hex(), groupID.Hex(), ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) auditEvent(ctx context.Context, eventType string, groupID primitive.ObjectID, actorID, userID *primitive.ObjectID, details map[string]string) {
	s.audit.Log(ctx, audit.Event{
		Category:  audit.CategoryGovernance,
		EventType: eventType,
		GroupID:   &groupID,
		ActorID:   actorID,
		UserID:    userID,
		Success:   true,
		Details:   details,
	})
}

// IsEngineError reports whether err belongs to the governance taxonomy.
func IsEngineError(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrConflict)
}
