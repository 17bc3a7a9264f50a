// internal/domain/models/joinrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Join request lifecycle: pending → approved | rejected (terminal).
// Withdrawal by the requester deletes the document and is not a status.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// JoinRequest is a pending application to join an approval-gated group.
// At most one pending document per (group_id, user_id), enforced by a
// partial unique index.
type JoinRequest struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID primitive.ObjectID `bson:"group_id" json:"group_id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"user_id"`
	Status  string             `bson:"status" json:"status"`
	Message string             `bson:"message,omitempty" json:"message,omitempty"`

	RequestedAt time.Time           `bson:"requested_at" json:"requested_at"`
	ResolvedBy  *primitive.ObjectID `bson:"resolved_by,omitempty" json:"resolved_by,omitempty"`
	ResolvedAt  *time.Time          `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
}
