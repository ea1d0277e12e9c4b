// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers
// ports, TLS, logging and CORS; everything here is specific to the
// cleanup-event service.
type AppConfig struct {
	// Storage backend: "mongo" or "memory". The memory backend keeps all
	// state in process and is meant for local runs and demos.
	StorageType string

	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: cleanupcrew-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Registration reconciliation
	ReconcileInterval time.Duration // 0 disables the worker

	// Audit logging: "all", "db", "log" or "off"
	AuditLogAuth      string
	AuditLogVolunteer string

	// Observability
	OtelEndpoint   string // OTLP/HTTP traces endpoint URL; blank disables tracing
	MetricsEnabled bool   // serve Prometheus metrics at /metrics

	// Storage call deadlines
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
}
