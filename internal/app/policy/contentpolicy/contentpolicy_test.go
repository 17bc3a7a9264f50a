package contentpolicy_test

import (
	"context"
	"testing"

	"github.com/dalemusser/chordhub/internal/app/policy/contentpolicy"
	"github.com/dalemusser/chordhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User-owned content never needs the database, so those paths are tested
// without one. Group-owned paths are covered in the content service tests
// against a real Mongo instance.

func userSong(creator primitive.ObjectID, collaborators ...primitive.ObjectID) models.Song {
	return models.Song{
		CreatedBy:     creator,
		Collaborators: collaborators,
		Ownership:     models.UserOwned(creator),
	}
}

func TestCanEdit_UserOwned_Creator(t *testing.T) {
	creator := primitive.NewObjectID()
	ok, err := contentpolicy.CanEdit(context.Background(), nil, userSong(creator), creator)
	if err != nil {
		t.Fatalf("CanEdit failed: %v", err)
	}
	if !ok {
		t.Error("creator should be able to edit their own content")
	}
}

func TestCanEdit_UserOwned_Stranger(t *testing.T) {
	ok, err := contentpolicy.CanEdit(context.Background(), nil, userSong(primitive.NewObjectID()), primitive.NewObjectID())
	if err != nil {
		t.Fatalf("CanEdit failed: %v", err)
	}
	if ok {
		t.Error("non-collaborator must not edit user-owned content")
	}
}

func TestCanEdit_UserOwned_Collaborator(t *testing.T) {
	creator := primitive.NewObjectID()
	collab := primitive.NewObjectID()
	ok, err := contentpolicy.CanEdit(context.Background(), nil, userSong(creator, collab), collab)
	if err != nil {
		t.Fatalf("CanEdit failed: %v", err)
	}
	if !ok {
		t.Error("registered collaborator should be able to edit")
	}
}

func TestCanEdit_AnonymousDenied(t *testing.T) {
	creator := primitive.NewObjectID()
	ok, err := contentpolicy.CanEdit(context.Background(), nil, userSong(creator), primitive.NilObjectID)
	if err != nil {
		t.Fatalf("CanEdit failed: %v", err)
	}
	if ok {
		t.Error("anonymous actor must always be denied")
	}
}

func TestCanEdit_MalformedGroupOwnerDenied(t *testing.T) {
	song := models.Song{
		CreatedBy: primitive.NewObjectID(),
		Ownership: models.Ownership{OwnerType: models.OwnerTypeGroup, OwnerID: "not-an-object-id"},
	}
	ok, err := contentpolicy.CanEdit(context.Background(), nil, song, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("CanEdit failed: %v", err)
	}
	if ok {
		t.Error("malformed group owner id must deny, not grant")
	}
}

func TestIsOwner(t *testing.T) {
	creator := primitive.NewObjectID()
	collab := primitive.NewObjectID()
	song := userSong(creator, collab)

	if !contentpolicy.IsOwner(song, creator) {
		t.Error("creator is the owner")
	}
	if contentpolicy.IsOwner(song, collab) {
		t.Error("a collaborator is not the owner, even though they can edit")
	}
	if contentpolicy.IsOwner(song, primitive.NilObjectID) {
		t.Error("anonymous is never the owner")
	}
}
