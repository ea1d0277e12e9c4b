// internal/app/volunteer/registration.go
package volunteer

import (
	"context"

	"github.com/dalemusser/cleanupcrew/internal/app/policy/eventpolicy"
	"github.com/dalemusser/cleanupcrew/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// RegistrationResult is returned by Register.
type RegistrationResult struct {
	Event             models.Event
	AlreadyRegistered bool
}

// Register signs userID up as a volunteer for eventID. Registering twice
// succeeds with AlreadyRegistered set and changes nothing. The organizer
// cannot register for their own event.
func (s *Service) Register(ctx context.Context, userID, eventID primitive.ObjectID) (res *RegistrationResult, err error) {
	ctx, span := s.start(ctx, "Register",
		attribute.String("user_id", userID.Hex()),
		attribute.String("event_id", eventID.Hex()))
	defer func() { finish(span, err) }()

	fields := []zap.Field{zap.String("event_id", eventID.Hex()), zap.String("user_id", userID.Hex())}

	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		err = storageError(err, "event not found")
		s.warnTransient("register", err, fields...)
		return nil, err
	}
	if _, err = s.users.GetByID(ctx, userID); err != nil {
		err = storageError(err, "user not found")
		s.warnTransient("register", err, fields...)
		return nil, err
	}
	if !eventpolicy.CanRegister(ev, userID) {
		return nil, newError(KindSelfRegistration, "organizers cannot register for their own event")
	}
	if ev.HasVolunteer(userID) {
		return &RegistrationResult{Event: *ev, AlreadyRegistered: true}, nil
	}

	added, err := s.events.AddVolunteer(ctx, eventID, userID)
	if err != nil {
		err = storageError(err, "event not found")
		s.warnTransient("register", err, fields...)
		return nil, err
	}
	if !added {
		// Lost a race with a concurrent registration for the same pair.
		return &RegistrationResult{Event: *ev, AlreadyRegistered: true}, nil
	}

	ev.Volunteers = append(ev.Volunteers, userID)
	s.log.Info("volunteer registered", fields...)
	s.audit.Registered(ctx, eventID, userID)
	return &RegistrationResult{Event: *ev}, nil
}
