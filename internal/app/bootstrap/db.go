// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/cleanupcrew/internal/app/system/indexes"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// EnsureSchema creates the MongoDB indexes, including the unique index on
// events.token that backs token lookup and collision detection. The memory
// backend keeps its own maps and needs nothing.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.CleanupCrewMongoDatabase == nil {
		return nil
	}
	if err := indexes.EnsureAll(ctx, deps.CleanupCrewMongoDatabase, logger); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	return nil
}
