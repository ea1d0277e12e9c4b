// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	attendancefeature "github.com/dalemusser/cleanupcrew/internal/app/features/attendance"
	eventsfeature "github.com/dalemusser/cleanupcrew/internal/app/features/events"
	healthfeature "github.com/dalemusser/cleanupcrew/internal/app/features/health"
	loginfeature "github.com/dalemusser/cleanupcrew/internal/app/features/login"
	logoutfeature "github.com/dalemusser/cleanupcrew/internal/app/features/logout"
	mefeature "github.com/dalemusser/cleanupcrew/internal/app/features/me"
	userstore "github.com/dalemusser/cleanupcrew/internal/app/store/users"
	"github.com/dalemusser/cleanupcrew/internal/app/system/attendtoken"
	"github.com/dalemusser/cleanupcrew/internal/app/system/auditlog"
	"github.com/dalemusser/cleanupcrew/internal/app/system/auth"
	"github.com/dalemusser/cleanupcrew/internal/app/system/metrics"
	"github.com/dalemusser/cleanupcrew/internal/app/system/requestid"
	"github.com/dalemusser/cleanupcrew/internal/app/volunteer"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It wires the engine over the configured
// backend, applies request-id, metrics and session middleware, and mounts
// the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	be := newBackend(deps, logger)

	// LoadSessionUser fetches the user on each request, so a deleted user
	// is signed out immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(be.fetch))

	auditLog := auditlog.New(be.audit, logger, auditlog.Config{
		Auth:      appCfg.AuditLogAuth,
		Volunteer: appCfg.AuditLogVolunteer,
	})

	hooks := []volunteer.Auditor{auditLog}
	var m *metrics.Metrics
	if appCfg.MetricsEnabled {
		m = metrics.New()
		hooks = append(hooks, m)
	}

	svc := volunteer.New(volunteer.Deps{
		Users:  be.users,
		Events: be.events,
		Tokens: attendtoken.Generator{},
		Audit:  volunteer.Auditors(hooks...),
		Log:    logger,
	})

	r := chi.NewRouter()

	r.Use(requestid.Middleware)
	if m != nil {
		r.Use(m.Middleware)
	}
	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.CleanupCrewMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	if m != nil {
		r.Handle("/metrics", m.Handler())
	}

	// Authentication
	loginHandler := loginfeature.NewHandler(svc, sessionMgr, auditLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, auditLog, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Events, registration, roster and exports
	eventsHandler := eventsfeature.NewHandler(svc, logger)
	r.Mount("/events", eventsfeature.Routes(eventsHandler, sessionMgr))

	// Attendance scanning
	scanHandler := attendancefeature.NewHandler(svc, logger)
	r.Mount("/scan", attendancefeature.Routes(scanHandler, sessionMgr))

	// The signed-in user's own views
	meHandler := mefeature.NewHandler(svc, logger)
	r.Mount("/me", mefeature.Routes(meHandler, sessionMgr))

	return r, nil
}
