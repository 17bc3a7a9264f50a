// internal/domain/models/arrangement.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Arrangement is a performable rendering of a song: key, chord chart,
// and optional sheet-music attachments.
type Arrangement struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	SongID primitive.ObjectID `bson:"song_id" json:"song_id"`
	Name   string             `bson:"name" json:"name"`
	Key    string             `bson:"key,omitempty" json:"key,omitempty"`
	Chart  string             `bson:"chart" json:"chart"` // chord chart / lead sheet text

	// Uploaded sheet-music files, stored by generated name.
	Attachments []Attachment `bson:"attachments,omitempty" json:"attachments,omitempty"`

	Ownership     Ownership            `bson:"ownership" json:"ownership"`
	CreatedBy     primitive.ObjectID   `bson:"created_by" json:"created_by"`
	Collaborators []primitive.ObjectID `bson:"collaborators,omitempty" json:"collaborators,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Attachment is an uploaded file reference on an arrangement.
type Attachment struct {
	Name       string    `bson:"name" json:"name"`               // original filename
	StoredName string    `bson:"stored_name" json:"stored_name"` // unique generated name
	Size       int64     `bson:"size" json:"size"`
	UploadedAt time.Time `bson:"uploaded_at" json:"uploaded_at"`
}

// ContentOwnership implements contentpolicy.Content.
func (a Arrangement) ContentOwnership() Ownership { return a.Ownership }

// Creator implements contentpolicy.Content.
func (a Arrangement) Creator() primitive.ObjectID { return a.CreatedBy }

// CollaboratorIDs implements contentpolicy.Content.
func (a Arrangement) CollaboratorIDs() []primitive.ObjectID { return a.Collaborators }
