// internal/domain/models/contentversion.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Content types that participate in version history.
const (
	ContentTypeSong        = "song"
	ContentTypeArrangement = "arrangement"
	ContentTypeSetlist     = "setlist"
)

// ContentVersion is one immutable history entry for a content item.
// Versions are written only for content owned by the system group, and only
// when the versioned fields actually changed. The snapshot always holds the
// pre-edit state, never the post-edit state. Documents are append-only:
// never mutated, never deleted.
type ContentVersion struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ContentType string             `bson:"content_type" json:"content_type"`
	ContentID   primitive.ObjectID `bson:"content_id" json:"content_id"`
	Version     int64              `bson:"version" json:"version"`

	// Snapshot holds only the content-defining fields (title, lyrics, …),
	// excluding derived or denormalized fields.
	Snapshot map[string]string `bson:"snapshot" json:"snapshot"`

	ChangedBy   primitive.ObjectID `bson:"changed_by" json:"changed_by"`
	ChangedAt   time.Time          `bson:"changed_at" json:"changed_at"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}
