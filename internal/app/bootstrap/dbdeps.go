// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"context"

	memstore "github.com/dalemusser/cleanupcrew/internal/app/store/memory"
	"github.com/dalemusser/cleanupcrew/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app. Exactly one of
// the Mongo pair or Memory is set, depending on storage_type.
type DBDeps struct {
	CleanupCrewMongoClient   *mongo.Client
	CleanupCrewMongoDatabase *mongo.Database

	Memory *memstore.Store

	// background holds what Startup starts and Shutdown stops. It is a
	// pointer so the copies WAFFLE passes between hooks share it.
	background *background
}

type background struct {
	reconcile     *workers.Reconcile
	traceShutdown func(context.Context) error
}
