// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	arrangementsfeature "github.com/dalemusser/chordhub/internal/app/features/arrangements"
	authgooglefeature "github.com/dalemusser/chordhub/internal/app/features/authgoogle"
	groupsfeature "github.com/dalemusser/chordhub/internal/app/features/groups"
	healthfeature "github.com/dalemusser/chordhub/internal/app/features/health"
	homefeature "github.com/dalemusser/chordhub/internal/app/features/home"
	loginfeature "github.com/dalemusser/chordhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/chordhub/internal/app/features/logout"
	setlistsfeature "github.com/dalemusser/chordhub/internal/app/features/setlists"
	songsfeature "github.com/dalemusser/chordhub/internal/app/features/songs"
	"github.com/dalemusser/chordhub/internal/app/store/audit"
	"github.com/dalemusser/chordhub/internal/app/system/auditlog"
	"github.com/dalemusser/chordhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. ChordHub mounts JSON feature routers:
// health, authentication, group governance, and the content areas (songs,
// arrangements, setlists).
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.ChordHubMongoDatabase

	auditLog := auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:       appCfg.AuditLogAuth,
		Governance: appCfg.AuditLogGovernance,
	})

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Landing resource
	homeHandler := homefeature.NewHandler(db, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.ChordHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(db, sessionMgr, auditLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	googleHandler := authgooglefeature.NewHandler(db, sessionMgr, auditLog, authgooglefeature.Config{
		ClientID:     appCfg.GoogleClientID,
		ClientSecret: appCfg.GoogleClientSecret,
		BaseURL:      appCfg.BaseURL,
	}, logger)
	r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

	// Group governance
	groupsHandler := groupsfeature.NewHandler(db, auditLog, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler))

	// Content
	songsHandler := songsfeature.NewHandler(db, logger)
	r.Mount("/songs", songsfeature.Routes(songsHandler))

	arrangementsHandler := arrangementsfeature.NewHandler(db, appCfg.UploadPath, logger)
	r.Mount("/arrangements", arrangementsfeature.Routes(arrangementsHandler))

	setlistsHandler := setlistsfeature.NewHandler(db, logger)
	r.Mount("/setlists", setlistsfeature.Routes(setlistsHandler))

	return r, nil
}
