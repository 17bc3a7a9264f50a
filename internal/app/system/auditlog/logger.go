// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"

	"github.com/dalemusser/chordhub/internal/app/store/audit"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, logout,
	// Google sign-in). Values: "all" (MongoDB + zap), "db" (MongoDB only),
	// "log" (zap only), "off" (disabled).
	Auth string
	// Governance controls logging for group governance events (joins,
	// promotions, removals, ownership transfers). Same values as Auth.
	Governance string
}

// Logger provides convenience methods for recording audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}

	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", event.ActorID.Hex()))
	}
	if event.GroupID != nil {
		fields = append(fields, zap.String("group_id", event.GroupID.Hex()))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration. A nil logger is a
// no-op, which lets tests pass nil instead of wiring the full stack.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	setting := l.config.Governance
	if event.Category == audit.CategoryAuth {
		setting = l.config.Auth
	}

	switch setting {
	case "off":
		return
	case "db":
		l.insert(ctx, event)
	case "log":
		l.logToZap(event)
	default: // "all" and anything unrecognized
		l.insert(ctx, event)
		l.logToZap(event)
	}
}

func (l *Logger) insert(ctx context.Context, event audit.Event) {
	if l.store == nil {
		return
	}
	if err := l.store.Insert(ctx, event); err != nil {
		// Audit writes never fail the underlying operation.
		l.zapLog.Error("audit event insert failed", zap.Error(err))
	}
}
