package login_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/cleanupcrew/internal/app/features/login"
	"github.com/dalemusser/cleanupcrew/internal/app/system/auditlog"
	"github.com/dalemusser/cleanupcrew/internal/app/system/auth"
	"github.com/dalemusser/cleanupcrew/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestHandler(t *testing.T) (*login.Handler, *observer.ObservedLogs) {
	t.Helper()
	logger := zap.NewNop()

	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only-0123", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	core, logs := observer.New(zapcore.InfoLevel)
	audit := auditlog.New(nil, zap.New(core), auditlog.Config{Auth: "log"})

	eng := testutil.NewEngine(t)
	return login.NewHandler(eng.Svc, sessionMgr, audit, logger), logs
}

func post(h *login.Handler, body string) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	h.HandleLogin(rec, testutil.NewJSONRequest(http.MethodPost, "/login", body))
	return rec
}

func TestHandleLogin_SignupThenLogin(t *testing.T) {
	h, logs := newTestHandler(t)

	rec := post(h, `{"name":"Ana","email":"Ana@Example.com"}`)
	rec.AssertStatus(t, http.StatusCreated)

	var first struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Created bool   `json:"created"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !first.Created || first.Email != "ana@example.com" {
		t.Errorf("signup response = %+v", first)
	}

	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("expected session cookie to be set")
	}

	rec = post(h, `{"email":"ana@example.com"}`)
	rec.AssertStatus(t, http.StatusOK)
	var second struct {
		ID      string `json:"id"`
		Created bool   `json:"created"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &second)
	if second.Created || second.ID != first.ID {
		t.Errorf("login response = %+v, want existing user %s", second, first.ID)
	}

	if n := logs.FilterField(zap.String("event_type", "signup")).Len(); n != 1 {
		t.Errorf("signup audit entries = %d, want 1", n)
	}
	if n := logs.FilterField(zap.String("event_type", "login_success")).Len(); n != 1 {
		t.Errorf("login audit entries = %d, want 1", n)
	}
}

func TestHandleLogin_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `name=ana`},
		{"bad email", `{"name":"Ana","email":"not-an-email"}`},
		{"signup without name", `{"email":"new@example.com"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t)
			rec := post(h, tt.body)
			rec.AssertStatus(t, http.StatusBadRequest)
			if len(rec.Result().Cookies()) != 0 {
				t.Error("failed login set a cookie")
			}
		})
	}
}
