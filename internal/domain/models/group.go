// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Join policies control how a user becomes a member of a group.
const (
	JoinPolicyOpen     = "open"     // joining creates a membership immediately
	JoinPolicyApproval = "approval" // joining creates a pending join request
)

// Group is a collection of users with shared content-ownership rights and
// internal governance roles (owner/admin/member).
//
// NOTE:
//   - Membership is not embedded on Group. All membership is stored in the
//     group_memberships collection, exactly one owner per group.
//   - IsSystemGroup marks the single designated community group whose
//     content edits are version-tracked. It is resolved by flag/slug at
//     runtime, never by a hardcoded ID.
type Group struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description"`

	JoinPolicy    string `bson:"join_policy" json:"join_policy"` // "open" | "approval"
	IsSystemGroup bool   `bson:"is_system_group" json:"is_system_group"`

	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
