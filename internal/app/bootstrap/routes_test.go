package bootstrap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/cleanupcrew/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// newTestServer runs the full lifecycle on the memory backend.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	t.Cleanup(timeouts.Reset)

	ctx := context.Background()
	coreCfg := &config.CoreConfig{Env: "dev"}
	appCfg := validConfig()
	appCfg.MetricsEnabled = true
	logger := zap.NewNop()

	deps, err := ConnectDB(ctx, coreCfg, appCfg, logger)
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	if err := EnsureSchema(ctx, coreCfg, appCfg, deps, logger); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := Startup(ctx, coreCfg, appCfg, deps, logger); err != nil {
		t.Fatalf("Startup: %v", err)
	}
	h, err := BuildHandler(coreCfg, appCfg, deps, logger)
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}

	srv := httptest.NewServer(h)
	t.Cleanup(func() {
		srv.Close()
		if err := Shutdown(ctx, coreCfg, appCfg, deps, logger); err != nil {
			t.Errorf("Shutdown: %v", err)
		}
	})
	return srv
}

type client struct {
	t   *testing.T
	srv *httptest.Server
	c   *http.Client
}

func newClient(t *testing.T, srv *httptest.Server) *client {
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &client{t: t, srv: srv, c: &http.Client{Jar: jar}}
}

// do sends a request and decodes a JSON response into out when non-nil.
func (c *client) do(method, path, body string, wantStatus int, out any) string {
	c.t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, c.srv.URL+path, rd)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.c.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		c.t.Fatalf("%s %s: status %d, want %d (body: %s)", method, path, resp.StatusCode, wantStatus, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			c.t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return string(raw)
}

func TestEndToEnd_RegisterAndScan(t *testing.T) {
	srv := newTestServer(t)
	org := newClient(t, srv)
	vol := newClient(t, srv)
	anon := newClient(t, srv)

	anon.do(http.MethodGet, "/events", "", http.StatusUnauthorized, nil)
	anon.do(http.MethodGet, "/health", "", http.StatusOK, nil)

	org.do(http.MethodPost, "/login", `{"name":"Olive Organizer","email":"olive@example.com"}`, http.StatusCreated, nil)

	var created struct {
		Event struct {
			ID string `json:"id"`
		} `json:"event"`
		Token string `json:"token"`
	}
	org.do(http.MethodPost, "/events",
		`{"title":"Beach cleanup","description":"Bags provided","location":"North Beach","when":"2026-11-07T09:00:00Z"}`,
		http.StatusCreated, &created)
	eventPath := "/events/" + created.Event.ID

	org.do(http.MethodPost, eventPath+"/register", "", http.StatusConflict, nil)

	vol.do(http.MethodPost, "/login", `{"name":"Victor","email":"victor@example.com"}`, http.StatusCreated, nil)

	scanBody := fmt.Sprintf(`{"token":%q}`, created.Token)
	vol.do(http.MethodPost, "/scan", scanBody, http.StatusForbidden, nil)

	vol.do(http.MethodPost, eventPath+"/register", "", http.StatusOK, nil)
	vol.do(http.MethodGet, eventPath+"/volunteers", "", http.StatusForbidden, nil)
	vol.do(http.MethodGet, eventPath+"/qr.png", "", http.StatusForbidden, nil)

	var scan struct {
		AlreadyConfirmed bool `json:"already_confirmed"`
	}
	vol.do(http.MethodPost, "/scan", scanBody, http.StatusOK, &scan)
	if scan.AlreadyConfirmed {
		t.Error("first scan reported already_confirmed")
	}
	vol.do(http.MethodPost, "/scan", scanBody, http.StatusOK, &scan)
	if !scan.AlreadyConfirmed {
		t.Error("second scan did not report already_confirmed")
	}

	var roster struct {
		Volunteers []struct {
			Email    string `json:"email"`
			Attended bool   `json:"attended"`
		} `json:"volunteers"`
	}
	org.do(http.MethodGet, eventPath+"/volunteers", "", http.StatusOK, &roster)
	if len(roster.Volunteers) != 1 || !roster.Volunteers[0].Attended || roster.Volunteers[0].Email != "victor@example.com" {
		t.Errorf("roster = %+v", roster.Volunteers)
	}

	var mine struct {
		Volunteer []struct {
			ID       string `json:"id"`
			Attended bool   `json:"attended"`
		} `json:"volunteer"`
	}
	vol.do(http.MethodGet, "/me/events", "", http.StatusOK, &mine)
	if len(mine.Volunteer) != 1 || mine.Volunteer[0].ID != created.Event.ID || !mine.Volunteer[0].Attended {
		t.Errorf("volunteer events = %+v", mine.Volunteer)
	}

	var profile struct {
		AttendedCount int `json:"attended_count"`
	}
	vol.do(http.MethodGet, "/me", "", http.StatusOK, &profile)
	if profile.AttendedCount != 1 {
		t.Errorf("attended_count = %d, want 1", profile.AttendedCount)
	}

	metrics := anon.do(http.MethodGet, "/metrics", "", http.StatusOK, nil)
	for _, want := range []string{
		"cleanupcrew_events_created_total 1",
		"cleanupcrew_registrations_total 1",
		"cleanupcrew_attendance_confirmations_total 1",
	} {
		if !strings.Contains(metrics, want) {
			t.Errorf("metrics missing %q", want)
		}
	}

	vol.do(http.MethodPost, "/logout", "", http.StatusNoContent, nil)
	vol.do(http.MethodGet, "/me", "", http.StatusUnauthorized, nil)
}

func TestEndToEnd_InvalidCode(t *testing.T) {
	srv := newTestServer(t)
	vol := newClient(t, srv)
	vol.do(http.MethodPost, "/login", `{"name":"Victor","email":"victor@example.com"}`, http.StatusCreated, nil)

	var body struct {
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	}
	vol.do(http.MethodPost, "/scan", `{"token":"not-a-real-code"}`, http.StatusNotFound, &body)
	if body.Message != "invalid code" {
		t.Errorf("message = %q, want %q", body.Message, "invalid code")
	}
	if body.RequestID == "" {
		t.Error("error response carries no request_id")
	}
}
