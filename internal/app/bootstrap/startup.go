// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/cleanupcrew/internal/app/system/tracing"
	"github.com/dalemusser/cleanupcrew/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// It installs the trace exporter (when otel_endpoint is set) so engine
// spans have somewhere to go, and starts the registration reconcile worker.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.background == nil {
		return fmt.Errorf("startup: DBDeps not built by ConnectDB")
	}

	shutdown, err := tracing.Setup(ctx, "cleanupcrew", appCfg.OtelEndpoint)
	if err != nil {
		return fmt.Errorf("tracing setup: %w", err)
	}
	deps.background.traceShutdown = shutdown
	if appCfg.OtelEndpoint != "" {
		logger.Info("tracing enabled", zap.String("endpoint", appCfg.OtelEndpoint))
	}

	if appCfg.ReconcileInterval > 0 {
		w := workers.NewReconcile(newBackend(deps, logger).repair, logger, appCfg.ReconcileInterval)
		w.Start()
		deps.background.reconcile = w
	}
	return nil
}
