// internal/app/content/service.go

// Package content applies edits to songs, arrangements, and setlists.
// Every edit runs the same pipeline: authorize via contentpolicy, sanitize
// submitted rich text, record a version when the item is owned by the
// system group, then apply the mutation. The version comparison happens
// against the pre-edit state, before the mutation becomes visible.
package content

import (
	"context"
	"fmt"

	"github.com/dalemusser/chordhub/internal/app/governance"
	"github.com/dalemusser/chordhub/internal/app/policy/contentpolicy"
	arrangementstore "github.com/dalemusser/chordhub/internal/app/store/arrangements"
	groupstore "github.com/dalemusser/chordhub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/chordhub/internal/app/store/memberships"
	setliststore "github.com/dalemusser/chordhub/internal/app/store/setlists"
	songstore "github.com/dalemusser/chordhub/internal/app/store/songs"
	"github.com/dalemusser/chordhub/internal/app/versioning"
	"github.com/dalemusser/chordhub/internal/domain/models"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Service is the content edit engine.
type Service struct {
	db           *mongo.Database
	songs        *songstore.Store
	arrangements *arrangementstore.Store
	setlists     *setliststore.Store
	groups       *groupstore.Store
	memberships  *membershipstore.Store
	versions     *versioning.Engine

	sanitize *bluemonday.Policy
	log      *zap.Logger
}

func NewService(db *mongo.Database, logger *zap.Logger) *Service {
	return &Service{
		db:           db,
		songs:        songstore.New(db),
		arrangements: arrangementstore.New(db),
		setlists:     setliststore.New(db),
		groups:       groupstore.New(db),
		memberships:  membershipstore.New(db),
		versions:     versioning.NewEngine(db, logger),
		sanitize:     bluemonday.UGCPolicy(),
		log:          logger,
	}
}

// authorizeEdit maps the policy decision into the engine error taxonomy.
func (s *Service) authorizeEdit(ctx context.Context, c contentpolicy.Content, actorID primitive.ObjectID) error {
	ok, err := contentpolicy.CanEdit(ctx, s.db, c, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %s may not edit this content: %w", actorID.Hex(), governance.ErrUnauthorized)
	}
	return nil
}

// isVersioned reports whether the content's owning group is the system
// group. Only the community group's wiki-style content carries history;
// custom groups do not opt in.
func (s *Service) isVersioned(ctx context.Context, o models.Ownership) (bool, error) {
	groupID, ok := o.GroupID()
	if !ok {
		return false, nil
	}
	g, err := s.groups.GetByID(ctx, groupID)
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return g.IsSystemGroup, nil
}

// systemGroup resolves the community group.
func (s *Service) systemGroup(ctx context.Context) (models.Group, error) {
	g, err := s.groups.GetSystemGroup(ctx)
	if err == mongo.ErrNoDocuments {
		return models.Group{}, fmt.Errorf("system group is not seeded: %w", governance.ErrNotFound)
	}
	if err != nil {
		return models.Group{}, err
	}
	return g, nil
}
