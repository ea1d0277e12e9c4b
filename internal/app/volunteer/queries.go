// internal/app/volunteer/queries.go
package volunteer

import (
	"context"
	"sort"

	"github.com/dalemusser/cleanupcrew/internal/app/policy/eventpolicy"
	"github.com/dalemusser/cleanupcrew/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
)

// VolunteerEvent is one row of VolunteerView.
type VolunteerEvent struct {
	Event    models.Event `json:"event"`
	Attended bool         `json:"attended"`
}

// RosterEntry is one row of VolunteerRoster.
type RosterEntry struct {
	UserID   primitive.ObjectID `json:"user_id"`
	FullName string             `json:"full_name"`
	Email    string             `json:"email"`
	Attended bool               `json:"attended"`
}

// EventDetail is an event as seen by one viewer.
type EventDetail struct {
	Event          models.Event
	OrganizerName  string
	VolunteerCount int
	IsOrganizer    bool
	IsRegistered   bool
	Attended       bool
	// Token is set only when the viewer is the organizer.
	Token string
}

// Profile summarizes a user's participation.
type Profile struct {
	User            models.User
	OrganizedCount  int
	RegisteredCount int
	AttendedCount   int
}

// OrganizerView returns the events userID organizes, soonest first.
func (s *Service) OrganizerView(ctx context.Context, userID primitive.ObjectID) (evs []models.Event, err error) {
	ctx, span := s.start(ctx, "OrganizerView", attribute.String("user_id", userID.Hex()))
	defer func() { finish(span, err) }()

	if _, err = s.users.GetByID(ctx, userID); err != nil {
		return nil, storageError(err, "user not found")
	}
	evs, err = s.events.ListByOrganizer(ctx, userID)
	if err != nil {
		return nil, storageError(err, "")
	}
	sortEvents(evs)
	return evs, nil
}

// VolunteerView returns the events userID registered for, with attendance,
// soonest first.
func (s *Service) VolunteerView(ctx context.Context, userID primitive.ObjectID) (rows []VolunteerEvent, err error) {
	ctx, span := s.start(ctx, "VolunteerView", attribute.String("user_id", userID.Hex()))
	defer func() { finish(span, err) }()

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storageError(err, "user not found")
	}
	evs, err := s.events.ListByIDs(ctx, u.RegisteredEvents)
	if err != nil {
		return nil, storageError(err, "")
	}
	sortEvents(evs)

	rows = make([]VolunteerEvent, 0, len(evs))
	for _, ev := range evs {
		rows = append(rows, VolunteerEvent{Event: ev, Attended: u.Attended(ev.ID)})
	}
	return rows, nil
}

// VolunteerRoster lists the volunteers of eventID with their attendance,
// ordered by name. Only the organizer may call it.
func (s *Service) VolunteerRoster(ctx context.Context, eventID, requesterID primitive.ObjectID) (rows []RosterEntry, err error) {
	ctx, span := s.start(ctx, "VolunteerRoster",
		attribute.String("event_id", eventID.Hex()),
		attribute.String("user_id", requesterID.Hex()))
	defer func() { finish(span, err) }()

	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, storageError(err, "event not found")
	}
	if !eventpolicy.CanViewRoster(ev, requesterID) {
		return nil, newError(KindForbidden, "only the organizer can view volunteers")
	}

	users, err := s.users.GetByIDs(ctx, ev.Volunteers)
	if err != nil {
		return nil, storageError(err, "")
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].FullNameCI != users[j].FullNameCI {
			return users[i].FullNameCI < users[j].FullNameCI
		}
		return users[i].ID.Hex() < users[j].ID.Hex()
	})

	rows = make([]RosterEntry, 0, len(users))
	for _, u := range users {
		rows = append(rows, RosterEntry{
			UserID:   u.ID,
			FullName: u.FullName,
			Email:    u.Email,
			Attended: u.Attended(ev.ID),
		})
	}
	return rows, nil
}

// EventDetail loads eventID together with viewerID's relation to it.
func (s *Service) EventDetail(ctx context.Context, eventID, viewerID primitive.ObjectID) (d *EventDetail, err error) {
	ctx, span := s.start(ctx, "EventDetail", attribute.String("event_id", eventID.Hex()))
	defer func() { finish(span, err) }()

	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, storageError(err, "event not found")
	}
	d = &EventDetail{
		Event:          *ev,
		VolunteerCount: len(ev.Volunteers),
		IsOrganizer:    eventpolicy.IsOrganizer(ev, viewerID),
		IsRegistered:   ev.HasVolunteer(viewerID),
	}
	if eventpolicy.CanViewToken(ev, viewerID) {
		d.Token = ev.Token
	}

	org, err := s.users.GetByID(ctx, ev.OrganizerID)
	if err != nil {
		if err = storageError(err, ""); KindOf(err) != KindNotFound {
			return nil, err
		}
	} else {
		d.OrganizerName = org.FullName
	}

	if d.IsRegistered {
		viewer, err := s.users.GetByID(ctx, viewerID)
		if err != nil {
			return nil, storageError(err, "user not found")
		}
		d.Attended = viewer.Attended(ev.ID)
	}
	return d, nil
}

// Profile loads userID with participation counts.
func (s *Service) Profile(ctx context.Context, userID primitive.ObjectID) (p *Profile, err error) {
	ctx, span := s.start(ctx, "Profile", attribute.String("user_id", userID.Hex()))
	defer func() { finish(span, err) }()

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storageError(err, "user not found")
	}
	return &Profile{
		User:            *u,
		OrganizedCount:  len(u.OrganizedEvents),
		RegisteredCount: len(u.RegisteredEvents),
		AttendedCount:   u.AttendedCount(),
	}, nil
}

func sortEvents(evs []models.Event) {
	sort.SliceStable(evs, func(i, j int) bool {
		if !evs[i].When.Equal(evs[j].When) {
			return evs[i].When.Before(evs[j].When)
		}
		return evs[i].ID.Hex() < evs[j].ID.Hex()
	})
}
