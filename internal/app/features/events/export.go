// internal/app/features/events/export.go
package events

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/dalemusser/cleanupcrew/internal/app/features/apierr"
	"github.com/dalemusser/cleanupcrew/internal/app/system/timeouts"
	"github.com/dalemusser/cleanupcrew/internal/app/volunteer"
	"github.com/dalemusser/cleanupcrew/internal/domain/models"
	"github.com/emersion/go-ical"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const (
	calendarProdID = "-//cleanupcrew//events//EN"

	// qrSize is the edge length of the rendered code in pixels.
	qrSize = 320
)

// ServeCalendar handles GET /events/{id}/calendar.ics.
func (h *Handler) ServeCalendar(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "event calendar")
	defer cancel()

	ev, err := h.Svc.GetEvent(ctx, id)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(calendarOf(ev)); err != nil {
		h.Log.Error("encode calendar", zap.String("event_id", ev.ID.Hex()), zap.Error(err))
		apierr.Write(w, r, h.Log, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="event-`+ev.ID.Hex()+`.ics"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

// calendarOf builds a one-event VCALENDAR. The event has no end time, so
// DTEND is omitted and clients treat it as an instant.
func calendarOf(ev *models.Event) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, calendarProdID)

	vev := ical.NewEvent()
	vev.Props.SetText(ical.PropUID, ev.ID.Hex()+"@cleanupcrew")
	vev.Props.SetDateTime(ical.PropDateTimeStamp, ev.CreatedAt.UTC())
	vev.Props.SetDateTime(ical.PropDateTimeStart, ev.When.UTC())
	vev.Props.SetText(ical.PropSummary, ev.Title)
	vev.Props.SetText(ical.PropDescription, ev.Description)
	vev.Props.SetText(ical.PropLocation, ev.Location)

	cal.Children = append(cal.Children, vev.Component)
	return cal
}

// ServeQR handles GET /events/{id}/qr.png. Only the organizer may render
// the code, since it carries the attendance token.
func (h *Handler) ServeQR(w http.ResponseWriter, r *http.Request) {
	uid, ok := viewer(w, r)
	if !ok {
		return
	}
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "event qr")
	defer cancel()

	d, err := h.Svc.EventDetail(ctx, id, uid)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	if !d.IsOrganizer {
		apierr.Write(w, r, h.Log, &volunteer.Error{
			Kind:    volunteer.KindForbidden,
			Message: "only the organizer can show the attendance code",
		})
		return
	}

	png, err := qrcode.Encode(d.Token, qrcode.Medium, qrSize)
	if err != nil {
		h.Log.Error("encode qr", zap.String("event_id", id.Hex()), zap.Error(err))
		apierr.Write(w, r, h.Log, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	_, _ = w.Write(png)
}
