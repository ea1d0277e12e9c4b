// internal/app/features/events/handler.go
package events

import (
	"net/http"
	"time"

	"github.com/dalemusser/cleanupcrew/internal/app/features/apierr"
	"github.com/dalemusser/cleanupcrew/internal/app/system/auth"
	"github.com/dalemusser/cleanupcrew/internal/app/volunteer"
	"github.com/dalemusser/cleanupcrew/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the /events endpoints.
type Handler struct {
	Svc *volunteer.Service
	Log *zap.Logger
}

func NewHandler(svc *volunteer.Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}

// eventView is the public JSON shape of an event. The token is never part
// of it; endpoints that may reveal the token add it explicitly.
type eventView struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	When           time.Time `json:"when"`
	OrganizerID    string    `json:"organizer_id"`
	VolunteerCount int       `json:"volunteer_count"`
}

func viewOf(ev *models.Event) eventView {
	return eventView{
		ID:             ev.ID.Hex(),
		Title:          ev.Title,
		Description:    ev.Description,
		Location:       ev.Location,
		When:           ev.When,
		OrganizerID:    ev.OrganizerID.Hex(),
		VolunteerCount: len(ev.Volunteers),
	}
}

func viewsOf(evs []models.Event) []eventView {
	out := make([]eventView, 0, len(evs))
	for i := range evs {
		out = append(out, viewOf(&evs[i]))
	}
	return out
}

// eventID parses the {id} URL parameter, writing a 404 when it cannot
// name any event.
func eventID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierr.NotFound(w, r, "event not found")
		return primitive.NilObjectID, false
	}
	return oid, true
}

// viewer returns the signed-in user's ID. RequireSignedIn guards every
// route, so a miss here means a malformed session ID.
func viewer(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	uid, ok := auth.UserID(r)
	if !ok {
		apierr.JSON(w, http.StatusUnauthorized, apierr.Body{Error: "unauthorized", Message: "sign in required"})
		return primitive.NilObjectID, false
	}
	return uid, true
}
