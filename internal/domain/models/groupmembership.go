// internal/domain/models/groupmembership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Governance roles within a group.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// GroupMembership is the authoritative join between users and groups.
// Exactly one document per (group_id, user_id); role is a scalar
// ("owner"|"admin"|"member").
//
// PromotedAt is set only while the role is "admin" and is the seniority key:
// admins are ordered by promoted_at ascending, earlier promotion = more
// senior. The owner has no promoted_at.
type GroupMembership struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID primitive.ObjectID `bson:"group_id" json:"group_id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role    string             `bson:"role" json:"role"`

	JoinedAt   time.Time           `bson:"joined_at" json:"joined_at"`
	PromotedAt *time.Time          `bson:"promoted_at,omitempty" json:"promoted_at,omitempty"`
	InvitedBy  *primitive.ObjectID `bson:"invited_by,omitempty" json:"invited_by,omitempty"`
}

// IsSeniorTo reports whether m is a strictly more senior admin than other.
// Seniority is defined only between two admins with promoted_at set; a
// missing or equal timestamp is "not senior to" rather than an error.
func (m *GroupMembership) IsSeniorTo(other *GroupMembership) bool {
	if m == nil || other == nil {
		return false
	}
	if m.Role != RoleAdmin || other.Role != RoleAdmin {
		return false
	}
	if m.PromotedAt == nil || other.PromotedAt == nil {
		return false
	}
	return m.PromotedAt.Before(*other.PromotedAt)
}
