// internal/app/features/me/handler.go
package me

import (
	"net/http"
	"time"

	"github.com/dalemusser/cleanupcrew/internal/app/features/apierr"
	"github.com/dalemusser/cleanupcrew/internal/app/system/auth"
	"github.com/dalemusser/cleanupcrew/internal/app/system/timeouts"
	"github.com/dalemusser/cleanupcrew/internal/app/volunteer"
	"github.com/dalemusser/cleanupcrew/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the signed-in user's own views.
type Handler struct {
	Svc *volunteer.Service
	Log *zap.Logger
}

func NewHandler(svc *volunteer.Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

type profileResponse struct {
	ID              string    `json:"id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	OrganizedCount  int       `json:"organized_count"`
	RegisteredCount int       `json:"registered_count"`
	AttendedCount   int       `json:"attended_count"`
	MemberSince     time.Time `json:"member_since"`
}

// ServeProfile handles GET /me.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := signedIn(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "me profile")
	defer cancel()

	p, err := h.Svc.Profile(ctx, uid)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	apierr.JSON(w, http.StatusOK, profileResponse{
		ID:              p.User.ID.Hex(),
		FullName:        p.User.FullName,
		Email:           p.User.Email,
		OrganizedCount:  p.OrganizedCount,
		RegisteredCount: p.RegisteredCount,
		AttendedCount:   p.AttendedCount,
		MemberSince:     p.User.CreatedAt,
	})
}

type eventRow struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Location string    `json:"location"`
	When     time.Time `json:"when"`
}

type organizedRow struct {
	eventRow
	VolunteerCount int `json:"volunteer_count"`
}

type volunteerRow struct {
	eventRow
	Attended bool `json:"attended"`
}

type eventsResponse struct {
	Organized []organizedRow `json:"organized"`
	Volunteer []volunteerRow `json:"volunteer"`
}

func rowOf(ev *models.Event) eventRow {
	return eventRow{ID: ev.ID.Hex(), Title: ev.Title, Location: ev.Location, When: ev.When}
}

// ServeEvents handles GET /me/events: the events the user organizes and the
// events they volunteer for, each soonest first.
func (h *Handler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	uid, ok := signedIn(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "me events")
	defer cancel()

	organized, err := h.Svc.OrganizerView(ctx, uid)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	volunteering, err := h.Svc.VolunteerView(ctx, uid)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	resp := eventsResponse{
		Organized: make([]organizedRow, 0, len(organized)),
		Volunteer: make([]volunteerRow, 0, len(volunteering)),
	}
	for i := range organized {
		resp.Organized = append(resp.Organized, organizedRow{
			eventRow:       rowOf(&organized[i]),
			VolunteerCount: len(organized[i].Volunteers),
		})
	}
	for i := range volunteering {
		resp.Volunteer = append(resp.Volunteer, volunteerRow{
			eventRow: rowOf(&volunteering[i].Event),
			Attended: volunteering[i].Attended,
		})
	}
	apierr.JSON(w, http.StatusOK, resp)
}

func signedIn(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	uid, ok := auth.UserID(r)
	if !ok {
		apierr.JSON(w, http.StatusUnauthorized, apierr.Body{Error: "unauthorized", Message: "sign in required"})
	}
	return uid, ok
}
