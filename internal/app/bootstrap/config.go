// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/cleanupcrew/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

const (
	storageMongo  = "mongo"
	storageMemory = "memory"
)

// appConfigKeys defines the configuration keys for CleanupCrew.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: CLEANUPCREW_MONGO_URI, CLEANUPCREW_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "storage_type", Default: storageMongo, Desc: "Storage backend: 'mongo' or 'memory'"},
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "cleanupcrew", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "cleanupcrew-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime (e.g., 24h, 720h)"},

	// Background work
	{Name: "reconcile_interval", Default: "5m", Desc: "How often to repair one-sided registrations (0 disables)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_volunteer", Default: "all", Desc: "Event/registration/attendance logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Observability
	{Name: "otel_endpoint", Default: "", Desc: "OTLP/HTTP traces endpoint (e.g., http://localhost:4318/v1/traces); blank disables"},
	{Name: "metrics_enabled", Default: true, Desc: "Serve Prometheus metrics at /metrics"},

	// Storage deadlines
	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document reads"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for lists and registration writes"},
	{Name: "timeout_long", Default: "30s", Desc: "Deadline for event creation and maintenance passes"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, CLEANUPCREW_* for app) and
// command-line flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CLEANUPCREW", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StorageType:      appValues.String("storage_type"),
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 30*24*time.Hour),

		ReconcileInterval: appValues.Duration("reconcile_interval", 5*time.Minute),

		AuditLogAuth:      appValues.String("audit_log_auth"),
		AuditLogVolunteer: appValues.String("audit_log_volunteer"),

		OtelEndpoint:   appValues.String("otel_endpoint"),
		MetricsEnabled: appValues.Bool("metrics_enabled"),

		TimeoutShort:  appValues.Duration("timeout_short", timeouts.DefaultShort),
		TimeoutMedium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
		TimeoutLong:   appValues.Duration("timeout_long", timeouts.DefaultLong),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI is only checked when the mongo backend is selected.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.StorageType {
	case storageMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if appCfg.MongoDatabase == "" {
			return fmt.Errorf("mongo_database is required when storage_type is %q", storageMongo)
		}
	case storageMemory:
		logger.Warn("using in-memory storage; all data is lost on exit")
	default:
		return fmt.Errorf("unknown storage_type %q (want %q or %q)", appCfg.StorageType, storageMongo, storageMemory)
	}

	if appCfg.SessionKey == "" {
		return fmt.Errorf("session_key is required")
	}
	if appCfg.ReconcileInterval < 0 {
		return fmt.Errorf("reconcile_interval must not be negative")
	}
	for name, v := range map[string]string{
		"audit_log_auth":      appCfg.AuditLogAuth,
		"audit_log_volunteer": appCfg.AuditLogVolunteer,
	} {
		switch v {
		case "all", "db", "log", "off", "":
		default:
			return fmt.Errorf("%s must be one of all, db, log, off; got %q", name, v)
		}
	}
	return nil
}
