// internal/app/features/events/write.go
package events

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/cleanupcrew/internal/app/features/apierr"
	"github.com/dalemusser/cleanupcrew/internal/app/system/timeouts"
	"github.com/dalemusser/cleanupcrew/internal/app/volunteer"
)

// maxBody caps request bodies on write endpoints.
const maxBody = 64 << 10

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	When        string `json:"when"`
}

type createResponse struct {
	Event eventView `json:"event"`
	Token string    `json:"token"`
}

// HandleCreate handles POST /events. The caller becomes the organizer and
// receives the attendance token so the code can be shown immediately.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := viewer(w, r)
	if !ok {
		return
	}

	var req createRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		apierr.BadRequest(w, r, "request body must be a JSON object")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "event create")
	defer cancel()

	ev, err := h.Svc.CreateEvent(ctx, uid, volunteer.NewEvent{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		When:        req.When,
	})
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	w.Header().Set("Location", "/events/"+ev.ID.Hex())
	apierr.JSON(w, http.StatusCreated, createResponse{Event: viewOf(ev), Token: ev.Token})
}

type registerResponse struct {
	Event             eventView `json:"event"`
	AlreadyRegistered bool      `json:"already_registered"`
}

// HandleRegister handles POST /events/{id}/register. Registering twice is
// not an error; the second call reports already_registered.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	uid, ok := viewer(w, r)
	if !ok {
		return
	}
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "event register")
	defer cancel()

	res, err := h.Svc.Register(ctx, uid, id)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, registerResponse{
		Event:             viewOf(&res.Event),
		AlreadyRegistered: res.AlreadyRegistered,
	})
}
