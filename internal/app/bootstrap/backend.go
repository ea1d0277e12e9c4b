// internal/app/bootstrap/backend.go
package bootstrap

import (
	"github.com/dalemusser/cleanupcrew/internal/app/store/audit"
	eventstore "github.com/dalemusser/cleanupcrew/internal/app/store/events"
	userstore "github.com/dalemusser/cleanupcrew/internal/app/store/users"
	"github.com/dalemusser/cleanupcrew/internal/app/system/auditlog"
	"github.com/dalemusser/cleanupcrew/internal/app/system/workers"
	"github.com/dalemusser/cleanupcrew/internal/app/volunteer"
	"go.uber.org/zap"
)

// backend is the set of stores the engine and its helpers run on, for
// whichever storage type was configured.
type backend struct {
	users  volunteer.UserStore
	events volunteer.EventStore
	fetch  userstore.Getter
	repair workers.Repairer
	audit  auditlog.Sink // nil on the memory backend; audit falls back to zap
}

func newBackend(deps DBDeps, logger *zap.Logger) backend {
	if deps.Memory != nil {
		return backend{
			users:  deps.Memory.Users(),
			events: deps.Memory.Events(),
			fetch:  deps.Memory.Users(),
			repair: deps.Memory.Events(),
		}
	}

	db := deps.CleanupCrewMongoDatabase
	users := userstore.New(db)
	events := eventstore.New(db, logger)
	return backend{
		users:  users,
		events: events,
		fetch:  users,
		repair: events,
		audit:  audit.New(db),
	}
}
