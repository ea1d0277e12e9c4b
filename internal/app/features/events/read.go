// internal/app/features/events/read.go
package events

import (
	"net/http"

	"github.com/dalemusser/cleanupcrew/internal/app/features/apierr"
	"github.com/dalemusser/cleanupcrew/internal/app/system/timeouts"
	"github.com/dalemusser/cleanupcrew/internal/app/volunteer"
)

type listResponse struct {
	Events []eventView `json:"events"`
}

// ServeList handles GET /events.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "events list")
	defer cancel()

	evs, err := h.Svc.ListEvents(ctx)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, listResponse{Events: viewsOf(evs)})
}

type detailResponse struct {
	Event         eventView `json:"event"`
	OrganizerName string    `json:"organizer_name"`
	IsOrganizer   bool      `json:"is_organizer"`
	IsRegistered  bool      `json:"is_registered"`
	Attended      bool      `json:"attended"`
	Token         string    `json:"token,omitempty"`
}

// ServeDetail handles GET /events/{id}.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	uid, ok := viewer(w, r)
	if !ok {
		return
	}
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "event detail")
	defer cancel()

	d, err := h.Svc.EventDetail(ctx, id, uid)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	ev := viewOf(&d.Event)
	ev.VolunteerCount = d.VolunteerCount
	apierr.JSON(w, http.StatusOK, detailResponse{
		Event:         ev,
		OrganizerName: d.OrganizerName,
		IsOrganizer:   d.IsOrganizer,
		IsRegistered:  d.IsRegistered,
		Attended:      d.Attended,
		Token:         d.Token,
	})
}

type rosterResponse struct {
	EventID    string                  `json:"event_id"`
	Volunteers []volunteer.RosterEntry `json:"volunteers"`
}

// ServeRoster handles GET /events/{id}/volunteers. Organizer only.
func (h *Handler) ServeRoster(w http.ResponseWriter, r *http.Request) {
	uid, ok := viewer(w, r)
	if !ok {
		return
	}
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "event roster")
	defer cancel()

	rows, err := h.Svc.VolunteerRoster(ctx, id, uid)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	if rows == nil {
		rows = []volunteer.RosterEntry{}
	}
	apierr.JSON(w, http.StatusOK, rosterResponse{EventID: id.Hex(), Volunteers: rows})
}
