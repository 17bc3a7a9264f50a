// internal/app/governance/join.go
package governance

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/chordhub/internal/app/policy/grouppolicy"
	"github.com/dalemusser/chordhub/internal/app/store/audit"
	requeststore "github.com/dalemusser/chordhub/internal/app/store/joinrequests"
	membershipstore "github.com/dalemusser/chordhub/internal/app/store/memberships"
	"github.com/dalemusser/chordhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// JoinResult reports what RequestJoin did: open groups admit immediately,
// approval-gated groups record a pending request.
type JoinResult struct {
	Joined     bool
	Membership *models.GroupMembership
	Request    *models.JoinRequest
}

// RequestJoin lets a user join a group or file a join request, depending on
// the group's join policy. Fails with ErrConflict if the user is already a
// member or already has a pending request.
func (s *Service) RequestJoin(ctx context.Context, groupID, userID primitive.ObjectID, message string) (JoinResult, error) {
	g, err := s.loadGroup(ctx, groupID)
	if err != nil {
		return JoinResult{}, err
	}

	exists, err := s.memberships.Exists(ctx, groupID, userID)
	if err != nil {
		return JoinResult{}, err
	}
	if exists {
		return JoinResult{}, fmt.Errorf("user %s already belongs to group %s: %w", userID.Hex(), groupID.Hex(), ErrConflict)
	}

	// Open groups short-circuit straight to membership.
	if g.JoinPolicy == models.JoinPolicyOpen {
		m, err := s.memberships.Add(ctx, models.GroupMembership{
			GroupID:  groupID,
			UserID:   userID,
			Role:     models.RoleMember,
			JoinedAt: time.Now().UTC(),
		})
		if err == membershipstore.ErrDuplicateMembership {
			return JoinResult{}, fmt.Errorf("user %s already belongs to group %s: %w", userID.Hex(), groupID.Hex(), ErrConflict)
		}
		if err != nil {
			return JoinResult{}, err
		}
		s.auditEvent(ctx, audit.EventMemberJoined, groupID, nil, &userID, nil)
		return JoinResult{Joined: true, Membership: &m}, nil
	}

	req, err := s.requests.Create(ctx, groupID, userID, message)
	if err == requeststore.ErrDuplicatePending {
		return JoinResult{}, fmt.Errorf("user %s already has a pending request for group %s: %w", userID.Hex(), groupID.Hex(), ErrConflict)
	}
	if err != nil {
		return JoinResult{}, err
	}
	s.auditEvent(ctx, audit.EventJoinRequested, groupID, nil, &userID, nil)
	return JoinResult{Request: &req}, nil
}

// CancelRequest withdraws the caller's own pending request. Withdrawal
// deletes the document; it is not recorded as a rejection.
func (s *Service) CancelRequest(ctx context.Context, groupID, userID primitive.ObjectID) error {
	deleted, err := s.requests.DeletePending(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return fmt.Errorf("no pending request for user %s in group %s: %w", userID.Hex(), groupID.Hex(), ErrNotFound)
	}
	s.auditEvent(ctx, audit.EventJoinRequestCancel, groupID, nil, &userID, nil)
	return nil
}

// ApproveRequest approves a pending join request and creates the membership.
// Only actors whose policy decision grants CanApproveRequests may call this.
// Re-approving an already-resolved request fails with ErrInvalidState.
func (s *Service) ApproveRequest(ctx context.Context, groupID, actorID, requestID primitive.ObjectID) (models.GroupMembership, error) {
	req, err := s.loadRequest(ctx, groupID, requestID)
	if err != nil {
		return models.GroupMembership{}, err
	}

	actor, err := s.actorMembership(ctx, groupID, actorID)
	if err != nil {
		return models.GroupMembership{}, err
	}
	if !grouppolicy.Resolve(actor, nil).CanApproveRequests {
		return models.GroupMembership{}, fmt.Errorf("actor %s may not approve requests in group %s: %w", actorID.Hex(), groupID.Hex(), ErrUnauthorized)
	}

	if req.Status != models.RequestPending {
		return models.GroupMembership{}, fmt.Errorf("request %s is %s, not pending: %w", requestID.Hex(), req.Status, ErrInvalidState)
	}

	// The membership is inserted before the request is resolved: a failed
	// insert leaves the request pending, so the approval can simply be
	// retried. The reverse order would strand an approved request with no
	// membership.
	m, err := s.memberships.Add(ctx, models.GroupMembership{
		GroupID:   groupID,
		UserID:    req.UserID,
		Role:      models.RoleMember,
		JoinedAt:  time.Now().UTC(),
		InvitedBy: &actorID,
	})
	if err == membershipstore.ErrDuplicateMembership {
		return models.GroupMembership{}, fmt.Errorf("user %s already belongs to group %s: %w", req.UserID.Hex(), groupID.Hex(), ErrConflict)
	}
	if err != nil {
		return models.GroupMembership{}, err
	}

	// The conditional status filter in Resolve makes the approve-once
	// guarantee hold even if two moderators race on the same request.
	resolved, err := s.requests.Resolve(ctx, requestID, models.RequestApproved, actorID)
	if err != nil || !resolved {
		if _, rmErr := s.memberships.Remove(ctx, groupID, req.UserID); rmErr != nil {
			s.log.Error("approve rollback failed: membership without resolved request",
				zap.String("group_id", groupID.Hex()),
				zap.String("user_id", req.UserID.Hex()),
				zap.Error(rmErr))
		}
		if err != nil {
			return models.GroupMembership{}, err
		}
		return models.GroupMembership{}, fmt.Errorf("request %s was already resolved: %w", requestID.Hex(), ErrInvalidState)
	}

	s.auditEvent(ctx, audit.EventJoinApproved, groupID, &actorID, &req.UserID, nil)
	return m, nil
}

// RejectRequest rejects a pending join request. It only sets the status and
// resolver fields; no membership is created. Re-rejecting a resolved request
// fails with ErrInvalidState.
func (s *Service) RejectRequest(ctx context.Context, groupID, actorID, requestID primitive.ObjectID) error {
	req, err := s.loadRequest(ctx, groupID, requestID)
	if err != nil {
		return err
	}

	actor, err := s.actorMembership(ctx, groupID, actorID)
	if err != nil {
		return err
	}
	if !grouppolicy.Resolve(actor, nil).CanApproveRequests {
		return fmt.Errorf("actor %s may not reject requests in group %s: %w", actorID.Hex(), groupID.Hex(), ErrUnauthorized)
	}

	if req.Status != models.RequestPending {
		return fmt.Errorf("request %s is %s, not pending: %w", requestID.Hex(), req.Status, ErrInvalidState)
	}

	resolved, err := s.requests.Resolve(ctx, requestID, models.RequestRejected, actorID)
	if err != nil {
		return err
	}
	if !resolved {
		return fmt.Errorf("request %s was already resolved: %w", requestID.Hex(), ErrInvalidState)
	}

	s.auditEvent(ctx, audit.EventJoinRejected, groupID, &actorID, &req.UserID, nil)
	return nil
}

// loadRequest loads a join request and checks it belongs to the group.
func (s *Service) loadRequest(ctx context.Context, groupID, requestID primitive.ObjectID) (models.JoinRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err == mongo.ErrNoDocuments {
		return models.JoinRequest{}, fmt.Errorf("join request %s: %w", requestID.Hex(), ErrNotFound)
	}
	if err != nil {
		return models.JoinRequest{}, err
	}
	if req.GroupID != groupID {
		return models.JoinRequest{}, fmt.Errorf("join request %s does not belong to group %s: %w", requestID.Hex(), groupID.Hex(), ErrNotFound)
	}
	return req, nil
}
