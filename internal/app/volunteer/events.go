// internal/app/volunteer/events.go
package volunteer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/cleanupcrew/internal/app/store/storeerr"
	"github.com/dalemusser/cleanupcrew/internal/app/system/htmlsanitize"
	"github.com/dalemusser/cleanupcrew/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// NewEvent is the input to CreateEvent. When must be an RFC 3339 instant.
type NewEvent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	When        string `json:"when"`
}

// CreateEvent validates in, issues a token, and stores the event with an
// empty volunteer set. The organizer's organized-event set gains the new
// ID in the same write.
func (s *Service) CreateEvent(ctx context.Context, organizerID primitive.ObjectID, in NewEvent) (ev *models.Event, err error) {
	ctx, span := s.start(ctx, "CreateEvent", attribute.String("user_id", organizerID.Hex()))
	defer func() { finish(span, err) }()

	title := htmlsanitize.PlainText(in.Title)
	desc := htmlsanitize.PlainText(in.Description)
	loc := htmlsanitize.PlainText(in.Location)
	switch {
	case title == "":
		return nil, newError(KindValidation, "title is required")
	case desc == "":
		return nil, newError(KindValidation, "description is required")
	case loc == "":
		return nil, newError(KindValidation, "location is required")
	}
	when, perr := time.Parse(time.RFC3339, strings.TrimSpace(in.When))
	if perr != nil {
		return nil, newError(KindValidation, "when must be an RFC 3339 date-time")
	}

	rec := models.Event{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: desc,
		Location:    loc,
		When:        when.UTC(),
		OrganizerID: organizerID,
		Volunteers:  []primitive.ObjectID{},
		CreatedAt:   s.now(),
	}

	for attempt := 1; ; attempt++ {
		tok, terr := s.tokens.Generate(rec.ID)
		if terr != nil {
			return nil, &Error{Kind: KindTransient, Message: "token generation failed", Err: terr}
		}
		rec.Token = tok

		err = s.events.Create(ctx, rec)
		if err == nil {
			break
		}
		if !errors.Is(err, storeerr.ErrDuplicateToken) {
			err = storageError(err, "organizer not found")
			s.warnTransient("create event", err, zap.String("user_id", organizerID.Hex()))
			return nil, err
		}
		if attempt == maxTokenAttempts {
			return nil, &Error{Kind: KindTransient, Message: "could not allocate a unique token", Err: err}
		}
		s.log.Warn("attendance token collision; regenerating",
			zap.String("event_id", rec.ID.Hex()), zap.Int("attempt", attempt))
	}

	s.log.Info("event created",
		zap.String("event_id", rec.ID.Hex()),
		zap.String("user_id", organizerID.Hex()))
	s.audit.EventCreated(ctx, &rec)
	return &rec, nil
}

// GetEvent loads an event by ID.
func (s *Service) GetEvent(ctx context.Context, id primitive.ObjectID) (ev *models.Event, err error) {
	ctx, span := s.start(ctx, "GetEvent", attribute.String("event_id", id.Hex()))
	defer func() { finish(span, err) }()

	ev, err = s.events.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(err, "event not found")
	}
	return ev, nil
}

// GetEventByToken resolves an attendance token.
func (s *Service) GetEventByToken(ctx context.Context, token string) (ev *models.Event, err error) {
	ctx, span := s.start(ctx, "GetEventByToken")
	defer func() { finish(span, err) }()

	ev, err = s.events.GetByToken(ctx, token)
	if err != nil {
		return nil, storageError(err, "event not found")
	}
	return ev, nil
}

// ListEvents returns every event in creation order.
func (s *Service) ListEvents(ctx context.Context) (evs []models.Event, err error) {
	ctx, span := s.start(ctx, "ListEvents")
	defer func() { finish(span, err) }()

	evs, err = s.events.List(ctx)
	if err != nil {
		return nil, storageError(err, "")
	}
	return evs, nil
}
