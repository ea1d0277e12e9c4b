// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/cleanupcrew/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that call a handler method directly.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures inserts test documents directly, bypassing the stores.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with empty relation sets.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:               primitive.NewObjectID(),
		FullName:         fullName,
		FullNameCI:       text.Fold(fullName),
		Email:            strings.ToLower(email),
		OrganizedEvents:  []primitive.ObjectID{},
		RegisteredEvents: []primitive.ObjectID{},
		Attendance:       map[string]bool{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateEvent inserts an event organized by organizerID. The organizer's
// organized_events is not updated.
func (f *Fixtures) CreateEvent(ctx context.Context, organizerID primitive.ObjectID, title, token string) models.Event {
	f.t.Helper()

	ev := models.Event{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: "Test cleanup",
		Location:    "Test Beach",
		When:        time.Now().UTC().Add(24 * time.Hour).Truncate(time.Millisecond),
		OrganizerID: organizerID,
		Token:       token,
		Volunteers:  []primitive.ObjectID{},
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := f.db.Collection("events").InsertOne(ctx, ev); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	return ev
}
