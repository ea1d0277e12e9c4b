// internal/testutil/engine.go
package testutil

import (
	"context"
	"testing"
	"time"

	memstore "github.com/dalemusser/cleanupcrew/internal/app/store/memory"
	"github.com/dalemusser/cleanupcrew/internal/app/system/attendtoken"
	"github.com/dalemusser/cleanupcrew/internal/app/volunteer"
	"github.com/dalemusser/cleanupcrew/internal/domain/models"
	"go.uber.org/zap"
)

// Engine is a volunteer.Service over an in-memory store, for handler tests
// that do not need MongoDB.
type Engine struct {
	Svc   *volunteer.Service
	Store *memstore.Store
}

// NewEngine returns an Engine with an empty store.
func NewEngine(t *testing.T) *Engine {
	t.Helper()
	st := memstore.New()
	return &Engine{
		Store: st,
		Svc: volunteer.New(volunteer.Deps{
			Users:  st.Users(),
			Events: st.Events(),
			Tokens: attendtoken.Generator{},
			Log:    zap.NewNop(),
		}),
	}
}

// User creates a user and returns it as a TestUser for WithUser.
func (e *Engine) User(t *testing.T, name, email string) TestUser {
	t.Helper()
	u, err := e.Store.Users().Create(context.Background(), models.User{FullName: name, Email: email})
	if err != nil {
		t.Fatalf("create user %q: %v", email, err)
	}
	return TestUser{ID: u.ID.Hex(), Name: u.FullName, Email: u.Email}
}

// Event creates an event organized by organizer, scheduled a week out.
func (e *Engine) Event(t *testing.T, organizer TestUser, title string) *models.Event {
	t.Helper()
	oid, ok := organizer.objectID()
	if !ok {
		t.Fatalf("organizer ID %q is not an ObjectID", organizer.ID)
	}
	ev, err := e.Svc.CreateEvent(context.Background(), oid, volunteer.NewEvent{
		Title:       title,
		Description: "Bring gloves.",
		Location:    "North Beach",
		When:        time.Now().Add(7 * 24 * time.Hour).UTC().Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("create event %q: %v", title, err)
	}
	return ev
}

// Register signs u up for ev.
func (e *Engine) Register(t *testing.T, u TestUser, ev *models.Event) {
	t.Helper()
	oid, _ := u.objectID()
	if _, err := e.Svc.Register(context.Background(), oid, ev.ID); err != nil {
		t.Fatalf("register %s for %s: %v", u.Email, ev.Title, err)
	}
}
