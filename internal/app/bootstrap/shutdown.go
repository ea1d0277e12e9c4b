// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown stops background work, flushes traces, and closes the DB
// connection, in that order.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if bg := deps.background; bg != nil {
		if bg.reconcile != nil {
			bg.reconcile.Stop()
		}
		if bg.traceShutdown != nil {
			if err := bg.traceShutdown(ctx); err != nil {
				logger.Warn("trace exporter shutdown failed", zap.Error(err))
			}
		}
	}

	if deps.CleanupCrewMongoClient != nil {
		logger.Info("disconnecting CleanupCrew MongoDB client")
		if err := deps.CleanupCrewMongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
