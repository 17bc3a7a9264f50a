// internal/app/policy/grouppolicy.go

// Package grouppolicy decides which governance actions an actor may take
// inside a group. It is a pure decision layer: callers load the relevant
// memberships and pass them in; no storage access happens here.
//
// Rules:
//   - The owner may do everything, including managing admins.
//   - An admin may fully manage plain members, approve join requests, and
//     promote members to admin. An admin may manage another admin only when
//     strictly more senior (promoted earlier); equal or missing promotion
//     timestamps grant nothing. Admins never manage the owner, never edit
//     group settings, never delete the group, never transfer ownership.
//   - Members and non-members have no management permissions.
package grouppolicy

import (
	"github.com/dalemusser/chordhub/internal/domain/models"
)

// Decision is the set of governance actions permitted for one
// (actor, target) pair. Target-independent fields (CanApproveRequests,
// CanEditSettings, …) describe the actor's standing in the group.
type Decision struct {
	CanManage  bool
	CanPromote bool
	CanDemote  bool
	CanRemove  bool

	CanApproveRequests   bool
	CanEditSettings      bool
	CanDeleteGroup       bool
	CanTransferOwnership bool
}

// Resolve computes the permitted actions for actor against target.
// Either membership may be nil: a nil actor is a non-member with no
// permissions, a nil target yields only the target-independent fields.
func Resolve(actor, target *models.GroupMembership) Decision {
	if actor == nil {
		return Decision{}
	}

	switch actor.Role {
	case models.RoleOwner:
		return ownerDecision(target)
	case models.RoleAdmin:
		return adminDecision(actor, target)
	default:
		// Plain members and anything unrecognized: no permissions.
		return Decision{}
	}
}

func ownerDecision(target *models.GroupMembership) Decision {
	d := Decision{
		CanApproveRequests:   true,
		CanEditSettings:      true,
		CanDeleteGroup:       true,
		CanTransferOwnership: true,
	}
	if target == nil {
		return d
	}
	// The owner manages everyone but themselves; ownership transfer is the
	// only way out of the owner role.
	if target.Role == models.RoleOwner {
		return d
	}
	d.CanManage = true
	d.CanRemove = true
	d.CanPromote = target.Role == models.RoleMember
	d.CanDemote = target.Role == models.RoleAdmin
	return d
}

func adminDecision(actor, target *models.GroupMembership) Decision {
	d := Decision{CanApproveRequests: true}
	if target == nil {
		return d
	}
	switch target.Role {
	case models.RoleMember:
		d.CanManage = true
		d.CanPromote = true
		d.CanRemove = true
	case models.RoleAdmin:
		// Strict seniority: promoted earlier wins. Equal timestamps or a
		// missing promoted_at on either side permit nothing.
		if actor.IsSeniorTo(target) {
			d.CanManage = true
			d.CanDemote = true
			d.CanRemove = true
		}
	case models.RoleOwner:
		// Admins never manage the owner.
	}
	return d
}
