// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging level, CORS, request limits). AppConfig is everything specific
// to ChordHub: database connection, sessions, OAuth, audit logging, and
// the identity of the community group that holds shared content.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: chordhub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Base URL for OAuth callbacks
	BaseURL string // e.g., "https://chordhub.example.com" or "http://localhost:3000"

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Audit logging: "all" (db+log), "db", "log", or "off"
	AuditLogAuth       string
	AuditLogGovernance string

	// System group holding community-owned content. Seeded at startup
	// if it does not exist.
	SystemGroupSlug string
	SystemGroupName string

	// Sheet music upload storage
	UploadPath string // Local directory for uploaded attachments
}
