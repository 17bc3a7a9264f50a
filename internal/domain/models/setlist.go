// internal/domain/models/setlist.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Setlist is an ordered list of arrangements for an event or service.
type Setlist struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Date  *time.Time         `bson:"date,omitempty" json:"date,omitempty"`
	Notes string             `bson:"notes,omitempty" json:"notes,omitempty"`

	ArrangementIDs []primitive.ObjectID `bson:"arrangement_ids,omitempty" json:"arrangement_ids,omitempty"`

	Ownership     Ownership            `bson:"ownership" json:"ownership"`
	CreatedBy     primitive.ObjectID   `bson:"created_by" json:"created_by"`
	Collaborators []primitive.ObjectID `bson:"collaborators,omitempty" json:"collaborators,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ContentOwnership implements contentpolicy.Content.
func (s Setlist) ContentOwnership() Ownership { return s.Ownership }

// Creator implements contentpolicy.Content.
func (s Setlist) Creator() primitive.ObjectID { return s.CreatedBy }

// CollaboratorIDs implements contentpolicy.Content.
func (s Setlist) CollaboratorIDs() []primitive.ObjectID { return s.Collaborators }
