package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/cleanupcrew/internal/app/store/audit"
	"github.com/dalemusser/cleanupcrew/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	eventID := primitive.NewObjectID()
	err := store.Log(ctx, audit.Event{
		Category:  audit.CategoryVolunteer,
		EventType: audit.EventVolunteerRegistered,
		UserID:    &userID,
		EventID:   &eventID,
		Success:   true,
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.Query(ctx, audit.QueryFilter{EventID: &eventID})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsZero() {
		t.Error("expected ID to be auto-generated")
	}
	if events[0].Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
	if *events[0].UserID != userID {
		t.Errorf("UserID: got %v, want %v", *events[0].UserID, userID)
	}
}

func TestStore_Query_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	old := time.Now().UTC().Add(-48 * time.Hour)
	for _, ev := range []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, UserID: &userID, Success: true},
		{Category: audit.CategoryVolunteer, EventType: audit.EventAttendanceConfirmed, UserID: &userID, Success: true},
		{Category: audit.CategoryVolunteer, EventType: audit.EventAttendanceConfirmed, UserID: &userID, Success: true, Timestamp: old},
	} {
		if err := store.Log(ctx, ev); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	since := time.Now().UTC().Add(-time.Hour)
	tests := []struct {
		name   string
		filter audit.QueryFilter
		want   int
	}{
		{"by user", audit.QueryFilter{UserID: &userID}, 3},
		{"by category", audit.QueryFilter{UserID: &userID, Category: audit.CategoryVolunteer}, 2},
		{"by type and time", audit.QueryFilter{EventType: audit.EventAttendanceConfirmed, StartTime: &since}, 1},
		{"limit", audit.QueryFilter{UserID: &userID, Limit: 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d events, want %d", len(got), tt.want)
			}
		})
	}
}
