// internal/app/features/attendance/handler.go
package attendance

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/cleanupcrew/internal/app/features/apierr"
	"github.com/dalemusser/cleanupcrew/internal/app/system/auth"
	"github.com/dalemusser/cleanupcrew/internal/app/system/timeouts"
	"github.com/dalemusser/cleanupcrew/internal/app/volunteer"
	"go.uber.org/zap"
)

// Handler serves POST /scan.
type Handler struct {
	Svc *volunteer.Service
	Log *zap.Logger
}

func NewHandler(svc *volunteer.Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

type scanRequest struct {
	Token string `json:"token"`
}

// HandleScan confirms the signed-in user's attendance at the event whose
// code they scanned. The client decodes the image; the body carries the
// decoded string.
//
// 200 {"event":{...},"already_confirmed":false}
// 404 invalid code, 403 not registered.
func (h *Handler) HandleScan(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserID(r)
	if !ok {
		apierr.JSON(w, http.StatusUnauthorized, apierr.Body{Error: "unauthorized", Message: "sign in required"})
		return
	}

	var req scanRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
		apierr.BadRequest(w, r, "request body must be a JSON object with a token")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "attendance scan")
	defer cancel()

	res, err := h.Svc.ConfirmAttendance(ctx, uid, req.Token)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, res)
}
