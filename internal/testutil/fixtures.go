package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/chordhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		Name:       name,
		NameCI:     text.Fold(name),
		Email:      email,
		AuthMethod: "password",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateGroup creates a test group with the given join policy.
func (f *Fixtures) CreateGroup(ctx context.Context, name, joinPolicy string) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.Group{
		ID:         primitive.NewObjectID(),
		Name:       name,
		NameCI:     text.Fold(name),
		Slug:       text.Fold(name),
		JoinPolicy: joinPolicy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return g
}

// CreateSystemGroup creates the community group.
func (f *Fixtures) CreateSystemGroup(ctx context.Context) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.Group{
		ID:            primitive.NewObjectID(),
		Name:          "Community",
		NameCI:        "community",
		Slug:          "community",
		JoinPolicy:    models.JoinPolicyOpen,
		IsSystemGroup: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create system group: %v", err)
	}
	return g
}

// CreateMembership creates a membership with the given role. joinedAt and
// promotedAt control tenure and seniority ordering in tests.
func (f *Fixtures) CreateMembership(ctx context.Context, groupID, userID primitive.ObjectID, role string, joinedAt time.Time, promotedAt *time.Time) models.GroupMembership {
	f.t.Helper()

	m := models.GroupMembership{
		ID:         primitive.NewObjectID(),
		GroupID:    groupID,
		UserID:     userID,
		Role:       role,
		JoinedAt:   joinedAt,
		PromotedAt: promotedAt,
	}
	if _, err := f.db.Collection("group_memberships").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	return m
}

// CreateOwner creates an owner membership joined now.
func (f *Fixtures) CreateOwner(ctx context.Context, groupID, userID primitive.ObjectID) models.GroupMembership {
	f.t.Helper()
	return f.CreateMembership(ctx, groupID, userID, models.RoleOwner, time.Now().UTC(), nil)
}

// CreateJoinRequest creates a pending join request.
func (f *Fixtures) CreateJoinRequest(ctx context.Context, groupID, userID primitive.ObjectID) models.JoinRequest {
	f.t.Helper()

	jr := models.JoinRequest{
		ID:          primitive.NewObjectID(),
		GroupID:     groupID,
		UserID:      userID,
		Status:      models.RequestPending,
		RequestedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("join_requests").InsertOne(ctx, jr); err != nil {
		f.t.Fatalf("failed to create test join request: %v", err)
	}
	return jr
}

// CreateSong creates a song with the given ownership.
func (f *Fixtures) CreateSong(ctx context.Context, title string, ownership models.Ownership, createdBy primitive.ObjectID) models.Song {
	f.t.Helper()

	now := time.Now().UTC()
	song := models.Song{
		ID:        primitive.NewObjectID(),
		Title:     title,
		TitleCI:   text.Fold(title),
		Lyrics:    "la la la",
		Ownership: ownership,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("songs").InsertOne(ctx, song); err != nil {
		f.t.Fatalf("failed to create test song: %v", err)
	}
	return song
}

// CreateArrangement creates an arrangement of a song.
func (f *Fixtures) CreateArrangement(ctx context.Context, songID primitive.ObjectID, name string, ownership models.Ownership, createdBy primitive.ObjectID) models.Arrangement {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Arrangement{
		ID:        primitive.NewObjectID(),
		SongID:    songID,
		Name:      name,
		Key:       "G",
		Chart:     "G C D",
		Ownership: ownership,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("arrangements").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test arrangement: %v", err)
	}
	return a
}

// CreateSetlist creates a setlist.
func (f *Fixtures) CreateSetlist(ctx context.Context, name string, ownership models.Ownership, createdBy primitive.ObjectID, arrangementIDs ...primitive.ObjectID) models.Setlist {
	f.t.Helper()

	now := time.Now().UTC()
	sl := models.Setlist{
		ID:             primitive.NewObjectID(),
		Name:           name,
		ArrangementIDs: arrangementIDs,
		Ownership:      ownership,
		CreatedBy:      createdBy,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := f.db.Collection("setlists").InsertOne(ctx, sl); err != nil {
		f.t.Fatalf("failed to create test setlist: %v", err)
	}
	return sl
}
