// internal/app/features/login/handler.go
package login

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/cleanupcrew/internal/app/features/apierr"
	"github.com/dalemusser/cleanupcrew/internal/app/system/auditlog"
	"github.com/dalemusser/cleanupcrew/internal/app/system/auth"
	"github.com/dalemusser/cleanupcrew/internal/app/system/timeouts"
	"github.com/dalemusser/cleanupcrew/internal/app/volunteer"
	"go.uber.org/zap"
)

// Handler serves POST /login.
//
// Credentials are checked upstream of this service; the handler trusts the
// name and email it is given, finds or creates the user, and binds the
// user's ID to the session cookie.
type Handler struct {
	Svc        *volunteer.Service
	SessionMgr *auth.SessionManager
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(svc *volunteer.Service, sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Svc:        svc,
		SessionMgr: sessionMgr,
		AuditLog:   audit,
		Log:        logger,
	}
}

type loginRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Created  bool   `json:"created"`
}

// HandleLogin signs the caller in. The first login for an email is a
// signup and answers 201; later logins answer 200.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
		apierr.BadRequest(w, r, "request body must be a JSON object with name and email")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	u, created, err := h.Svc.SignIn(ctx, req.Name, req.Email)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u.ID); err != nil {
		h.Log.Error("login: save session", zap.String("user_id", u.ID.Hex()), zap.Error(err))
		apierr.Write(w, r, h.Log, err)
		return
	}
	h.AuditLog.LoginSuccess(r.Context(), r, u.ID, created)

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	apierr.JSON(w, status, loginResponse{
		ID:       u.ID.Hex(),
		FullName: u.FullName,
		Email:    u.Email,
		Created:  created,
	})
}
