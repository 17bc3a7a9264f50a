// internal/domain/models/song.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Song is the canonical record of a song: title, artist, and lyrics.
// Arrangements reference a song and carry the performable material.
type Song struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Title    string             `bson:"title" json:"title"`
	TitleCI  string             `bson:"title_ci" json:"title_ci"`
	Artist   string             `bson:"artist,omitempty" json:"artist,omitempty"`
	Lyrics   string             `bson:"lyrics" json:"lyrics"`
	Language string             `bson:"language,omitempty" json:"language,omitempty"`

	Ownership     Ownership            `bson:"ownership" json:"ownership"`
	CreatedBy     primitive.ObjectID   `bson:"created_by" json:"created_by"`
	Collaborators []primitive.ObjectID `bson:"collaborators,omitempty" json:"collaborators,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ContentOwnership implements contentpolicy.Content.
func (s Song) ContentOwnership() Ownership { return s.Ownership }

// Creator implements contentpolicy.Content.
func (s Song) Creator() primitive.ObjectID { return s.CreatedBy }

// CollaboratorIDs implements contentpolicy.Content.
func (s Song) CollaboratorIDs() []primitive.ObjectID { return s.Collaborators }
