// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.

The unique indexes back the engine's cross-record invariants:
  - one membership per (group, user)
  - at most one pending join request per (group, user)
  - one version number per content item
  - unique group slug and user email
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureGroups(ctx, db); err != nil {
		problems = append(problems, "groups: "+err.Error())
	}
	if err := ensureGroupMemberships(ctx, db); err != nil {
		problems = append(problems, "group_memberships: "+err.Error())
	}
	if err := ensureJoinRequests(ctx, db); err != nil {
		problems = append(problems, "join_requests: "+err.Error())
	}
	if err := ensureSongs(ctx, db); err != nil {
		problems = append(problems, "songs: "+err.Error())
	}
	if err := ensureArrangements(ctx, db); err != nil {
		problems = append(problems, "arrangements: "+err.Error())
	}
	if err := ensureContentVersions(ctx, db); err != nil {
		problems = append(problems, "content_versions: "+err.Error())
	}
	if err := ensureAuditEvents(ctx, db); err != nil {
		problems = append(problems, "audit_events: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_email"),
		},
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("by_name_ci"),
		},
	})
	return err
}

func ensureGroups(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("groups").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_slug"),
		},
		{
			Keys:    bson.D{{Key: "is_system_group", Value: 1}},
			Options: options.Index().SetName("by_system_flag"),
		},
	})
	return err
}

func ensureGroupMemberships(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("group_memberships").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_group_user"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("by_user"),
		},
		{
			// Serves owner lookup, admin seniority ordering, and member
			// tenure ordering in one compound index.
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "role", Value: 1}, {Key: "promoted_at", Value: 1}},
			Options: options.Index().SetName("by_group_role_seniority"),
		},
	})
	return err
}

func ensureJoinRequests(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("join_requests").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// Partial unique: at most one *pending* request per (group, user).
			// Resolved requests are kept as history and do not collide.
			Keys: bson.D{{Key: "group_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_pending_request").
				SetPartialFilterExpression(bson.M{"status": "pending"}),
		},
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "status", Value: 1}, {Key: "requested_at", Value: 1}},
			Options: options.Index().SetName("by_group_status"),
		},
	})
	return err
}

func ensureSongs(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("songs").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title_ci", Value: 1}},
			Options: options.Index().SetName("by_title_ci"),
		},
		{
			Keys:    bson.D{{Key: "ownership.owner_type", Value: 1}, {Key: "ownership.owner_id", Value: 1}},
			Options: options.Index().SetName("by_owner"),
		},
	})
	return err
}

func ensureArrangements(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("arrangements").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "song_id", Value: 1}},
			Options: options.Index().SetName("by_song"),
		},
		{
			Keys:    bson.D{{Key: "ownership.owner_type", Value: 1}, {Key: "ownership.owner_id", Value: 1}},
			Options: options.Index().SetName("by_owner"),
		},
	})
	return err
}

func ensureContentVersions(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("content_versions").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "content_type", Value: 1}, {Key: "content_id", Value: 1}, {Key: "version", Value: -1}},
			Options: options.Index().SetUnique(true).SetName("uniq_content_version"),
		},
	})
	return err
}

func ensureAuditEvents(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("audit_events").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("by_group_time"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("by_category_time"),
		},
	})
	return err
}
