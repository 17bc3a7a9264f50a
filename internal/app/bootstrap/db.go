// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	groupstore "github.com/dalemusser/chordhub/internal/app/store/groups"
	"github.com/dalemusser/chordhub/internal/app/system/indexes"
	"github.com/dalemusser/chordhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection and verifies it with a ping.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}

	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
	return DBDeps{
		ChordHubMongoClient:   client,
		ChordHubMongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates indexes and seeds the system group.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.ChordHubMongoDatabase); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	if err := seedSystemGroup(ctx, deps.ChordHubMongoDatabase, appCfg, logger); err != nil {
		return fmt.Errorf("seed system group: %w", err)
	}
	return nil
}

// seedSystemGroup creates the community group on first startup. The group
// holds community-owned content and cannot be deleted through the API, so
// seeding is idempotent: an existing group (by flag or by slug) is left
// untouched.
func seedSystemGroup(ctx context.Context, db *mongo.Database, appCfg AppConfig, logger *zap.Logger) error {
	store := groupstore.New(db)

	if g, err := store.GetSystemGroup(ctx); err == nil {
		logger.Info("system group present", zap.String("slug", g.Slug))
		return nil
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	g, err := store.Create(ctx, models.Group{
		Name:          appCfg.SystemGroupName,
		Slug:          appCfg.SystemGroupSlug,
		Description:   "Community-owned songs, arrangements, and setlists.",
		JoinPolicy:    models.JoinPolicyOpen,
		IsSystemGroup: true,
	})
	if err != nil {
		if errors.Is(err, groupstore.ErrDuplicateSlug) {
			// Another instance seeded it first.
			return nil
		}
		return err
	}

	logger.Info("seeded system group", zap.String("slug", g.Slug))
	return nil
}
