package attendance_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/dalemusser/cleanupcrew/internal/app/features/attendance"
	"github.com/dalemusser/cleanupcrew/internal/testutil"
	"go.uber.org/zap"
)

type scanResponse struct {
	Event struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"event"`
	AlreadyConfirmed bool   `json:"already_confirmed"`
	Message          string `json:"message"`
}

func scan(t *testing.T, h *attendance.Handler, u testutil.TestUser, body string) (*testutil.ResponseRecorder, scanResponse) {
	t.Helper()
	rec := testutil.NewRecorder()
	h.HandleScan(rec, testutil.WithUser(testutil.NewJSONRequest(http.MethodPost, "/scan", body), u))
	var resp scanResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func TestHandleScan(t *testing.T) {
	eng := testutil.NewEngine(t)
	h := attendance.NewHandler(eng.Svc, zap.NewNop())

	org := eng.User(t, "Olive", "olive@example.com")
	vol := eng.User(t, "Victor", "victor@example.com")
	stranger := eng.User(t, "Sam", "sam@example.com")
	ev := eng.Event(t, org, "Reef day")
	eng.Register(t, vol, ev)

	body := fmt.Sprintf(`{"token":%q}`, ev.Token)

	rec, resp := scan(t, h, vol, body)
	rec.AssertStatus(t, http.StatusOK)
	if resp.AlreadyConfirmed {
		t.Error("first scan reported already_confirmed")
	}
	if resp.Event.ID != ev.ID.Hex() || resp.Event.Title != "Reef day" {
		t.Errorf("event = %+v", resp.Event)
	}

	rec, resp = scan(t, h, vol, body)
	rec.AssertStatus(t, http.StatusOK)
	if !resp.AlreadyConfirmed {
		t.Error("second scan did not report already_confirmed")
	}

	rec, _ = scan(t, h, stranger, body)
	rec.AssertStatus(t, http.StatusForbidden)

	rec, _ = scan(t, h, org, body)
	rec.AssertStatus(t, http.StatusForbidden)
}

func TestHandleScan_InvalidCode(t *testing.T) {
	eng := testutil.NewEngine(t)
	h := attendance.NewHandler(eng.Svc, zap.NewNop())
	vol := eng.User(t, "Victor", "victor@example.com")

	tests := []struct {
		name string
		body string
		want int
	}{
		{"blank", `{"token":""}`, http.StatusNotFound},
		{"garbage", `{"token":"https://example.com/not-a-code"}`, http.StatusNotFound},
		{"not json", `token`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := scan(t, h, vol, tt.body)
			rec.AssertStatus(t, tt.want)
			if tt.want == http.StatusNotFound && resp.Message != "invalid code" {
				t.Errorf("message = %q, want %q", resp.Message, "invalid code")
			}
		})
	}
}
