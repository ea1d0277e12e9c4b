package volunteer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/cleanupcrew/internal/app/volunteer"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestViews_SortedByWhen(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	org := e.user(t, "Olga")
	vol := e.user(t, "Vic")

	late := e.event(t, org.ID, "Late", "2026-12-01T09:00:00Z")
	early := e.event(t, org.ID, "Early", "2026-10-20T09:00:00Z")
	mid := e.event(t, org.ID, "Mid", "2026-11-01T09:00:00Z")
	for _, ev := range []primitive.ObjectID{late.ID, mid.ID, early.ID} {
		if _, err := e.svc.Register(ctx, vol.ID, ev); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}
	if _, err := e.svc.ConfirmAttendance(ctx, vol.ID, mid.Token); err != nil {
		t.Fatalf("ConfirmAttendance: %v", err)
	}

	orgView, err := e.svc.OrganizerView(ctx, org.ID)
	if err != nil {
		t.Fatalf("OrganizerView: %v", err)
	}
	want := []primitive.ObjectID{early.ID, mid.ID, late.ID}
	for i, ev := range orgView {
		if ev.ID != want[i] {
			t.Errorf("OrganizerView[%d]: got %s, want %s", i, ev.Title, want[i].Hex())
		}
	}

	volView, err := e.svc.VolunteerView(ctx, vol.ID)
	if err != nil {
		t.Fatalf("VolunteerView: %v", err)
	}
	if len(volView) != 3 {
		t.Fatalf("VolunteerView: got %d rows, want 3", len(volView))
	}
	for i, row := range volView {
		if row.Event.ID != want[i] {
			t.Errorf("VolunteerView[%d]: got %s", i, row.Event.Title)
		}
		if wantAttended := row.Event.ID == mid.ID; row.Attended != wantAttended {
			t.Errorf("VolunteerView[%d].Attended = %v, want %v", i, row.Attended, wantAttended)
		}
	}

	none, err := e.svc.OrganizerView(ctx, vol.ID)
	if err != nil || len(none) != 0 {
		t.Errorf("volunteer organizes nothing: got %d, %v", len(none), err)
	}
}

func TestViews_UnknownUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	if _, err := e.svc.OrganizerView(ctx, primitive.NewObjectID()); !errors.Is(err, volunteer.ErrNotFound) {
		t.Errorf("OrganizerView: got %v", err)
	}
	if _, err := e.svc.VolunteerView(ctx, primitive.NewObjectID()); !errors.Is(err, volunteer.ErrNotFound) {
		t.Errorf("VolunteerView: got %v", err)
	}
	if _, err := e.svc.VolunteerRoster(ctx, primitive.NewObjectID(), primitive.NewObjectID()); !errors.Is(err, volunteer.ErrNotFound) {
		t.Errorf("VolunteerRoster: got %v", err)
	}
}

func TestVolunteerRoster_Empty(t *testing.T) {
	e := newEnv(t)
	org := e.user(t, "Olga")
	ev := e.event(t, org.ID, "Sweep", "2026-11-01T09:00:00Z")

	rows, err := e.svc.VolunteerRoster(context.Background(), ev.ID, org.ID)
	if err != nil {
		t.Fatalf("VolunteerRoster: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestEventDetail(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	org := e.user(t, "Olga")
	vol := e.user(t, "Vic")
	stranger := e.user(t, "Sam")
	ev := e.event(t, org.ID, "Sweep", "2026-11-01T09:00:00Z")
	if _, err := e.svc.Register(ctx, vol.ID, ev.ID); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := e.svc.ConfirmAttendance(ctx, vol.ID, ev.Token); err != nil {
		t.Fatalf("ConfirmAttendance: %v", err)
	}

	tests := []struct {
		name          string
		viewer        primitive.ObjectID
		wantOrganizer bool
		wantReg       bool
		wantAttended  bool
		wantToken     bool
	}{
		{"organizer", org.ID, true, false, false, true},
		{"volunteer", vol.ID, false, true, true, false},
		{"stranger", stranger.ID, false, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := e.svc.EventDetail(ctx, ev.ID, tt.viewer)
			if err != nil {
				t.Fatalf("EventDetail: %v", err)
			}
			if d.OrganizerName != "Olga" {
				t.Errorf("OrganizerName: got %q", d.OrganizerName)
			}
			if d.VolunteerCount != 1 {
				t.Errorf("VolunteerCount: got %d", d.VolunteerCount)
			}
			if d.IsOrganizer != tt.wantOrganizer || d.IsRegistered != tt.wantReg || d.Attended != tt.wantAttended {
				t.Errorf("relation: got organizer=%v registered=%v attended=%v",
					d.IsOrganizer, d.IsRegistered, d.Attended)
			}
			if (d.Token != "") != tt.wantToken {
				t.Errorf("token visible = %v, want %v", d.Token != "", tt.wantToken)
			}
		})
	}
}

func TestProfile(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	org := e.user(t, "Olga")
	vol := e.user(t, "Vic")
	a := e.event(t, org.ID, "A", "2026-11-01T09:00:00Z")
	b := e.event(t, org.ID, "B", "2026-11-02T09:00:00Z")
	for _, ev := range []primitive.ObjectID{a.ID, b.ID} {
		if _, err := e.svc.Register(ctx, vol.ID, ev); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}
	if _, err := e.svc.ConfirmAttendance(ctx, vol.ID, b.Token); err != nil {
		t.Fatalf("ConfirmAttendance: %v", err)
	}

	p, err := e.svc.Profile(ctx, vol.ID)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if p.RegisteredCount != 2 || p.AttendedCount != 1 || p.OrganizedCount != 0 {
		t.Errorf("counts: got registered=%d attended=%d organized=%d",
			p.RegisteredCount, p.AttendedCount, p.OrganizedCount)
	}

	p, _ = e.svc.Profile(ctx, org.ID)
	if p.OrganizedCount != 2 {
		t.Errorf("organizer OrganizedCount: got %d", p.OrganizedCount)
	}
}

func TestSignIn(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	u, created, err := e.svc.SignIn(ctx, "Ana", "Ana@Example.com")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if !created {
		t.Error("first sign in should create the user")
	}

	again, created, err := e.svc.SignIn(ctx, "", "ana@example.com")
	if err != nil {
		t.Fatalf("second SignIn: %v", err)
	}
	if created || again.ID != u.ID {
		t.Errorf("second sign in: created=%v id=%v, want existing %v", created, again.ID, u.ID)
	}

	tests := []struct {
		name, full, email string
	}{
		{"missing email", "Ben", ""},
		{"bad email", "Ben", "not-an-email"},
		{"new user without name", "  ", "ben@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := e.svc.SignIn(ctx, tt.full, tt.email); !errors.Is(err, volunteer.ErrValidation) {
				t.Errorf("got %v, want validation", err)
			}
		})
	}
}
