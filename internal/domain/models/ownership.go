// internal/domain/models/ownership.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Owner types for songs, arrangements, and setlists.
const (
	OwnerTypeUser  = "user"
	OwnerTypeGroup = "group"
)

// Ownership records who owns a content item. OwnerID is the hex form of a
// user or group ObjectID depending on OwnerType. Content defaults to user
// ownership by its creator; group-owned content extends edit rights to all
// members of that group regardless of governance role.
type Ownership struct {
	OwnerType string `bson:"owner_type" json:"owner_type"` // "user" | "group"
	OwnerID   string `bson:"owner_id" json:"owner_id"`
}

// UserOwned builds the default ownership for newly created content.
func UserOwned(userID primitive.ObjectID) Ownership {
	return Ownership{OwnerType: OwnerTypeUser, OwnerID: userID.Hex()}
}

// GroupOwned builds group ownership for collectively-curated content.
func GroupOwned(groupID primitive.ObjectID) Ownership {
	return Ownership{OwnerType: OwnerTypeGroup, OwnerID: groupID.Hex()}
}

// GroupID returns the owning group's ObjectID, or false if the content is
// not group-owned or the stored ID is malformed.
func (o Ownership) GroupID() (primitive.ObjectID, bool) {
	if o.OwnerType != OwnerTypeGroup {
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(o.OwnerID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// UserID returns the owning user's ObjectID, or false if the content is
// not user-owned or the stored ID is malformed.
func (o Ownership) UserID() (primitive.ObjectID, bool) {
	if o.OwnerType != OwnerTypeUser {
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(o.OwnerID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}
