package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAuditorCounters(t *testing.T) {
	m := New()
	ctx := context.Background()
	id := primitive.NewObjectID()

	m.EventCreated(ctx, nil)
	m.Registered(ctx, id, id)
	m.Registered(ctx, id, id)
	m.AttendanceConfirmed(ctx, id, id)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"events_created", testutil.ToFloat64(m.eventsCreated), 1},
		{"registrations", testutil.ToFloat64(m.registrations), 2},
		{"confirmations", testutil.ToFloat64(m.confirmations), 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, path := range []string{"/events/a", "/events/b", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.requests.WithLabelValues("/events/{id}", "GET", "418")); got != 2 {
		t.Errorf("pattern count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("unmatched", "GET", "404")); got != 1 {
		t.Errorf("unmatched count = %v, want 1", got)
	}
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	m.Registered(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "cleanupcrew_registrations_total 1") {
		t.Errorf("exposition missing registrations counter:\n%s", rec.Body.String())
	}
}
