// internal/app/volunteer/attendance.go
package volunteer

import (
	"context"
	"time"

	"github.com/dalemusser/cleanupcrew/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// EventSummary identifies the event an attendance scan resolved to.
type EventSummary struct {
	ID       primitive.ObjectID `json:"id"`
	Title    string             `json:"title"`
	Location string             `json:"location"`
	When     time.Time          `json:"when"`
}

func summarize(ev *models.Event) EventSummary {
	return EventSummary{ID: ev.ID, Title: ev.Title, Location: ev.Location, When: ev.When}
}

// AttendanceResult is returned by ConfirmAttendance.
type AttendanceResult struct {
	Event            EventSummary `json:"event"`
	AlreadyConfirmed bool         `json:"already_confirmed"`
}

// ConfirmAttendance records that scannerID attended the event whose token
// was scanned. Only registered volunteers can confirm; the organizer is not
// a volunteer of their own event. Confirming again succeeds with
// AlreadyConfirmed set. Of two concurrent confirmations for the same pair,
// exactly one reports AlreadyConfirmed=false.
func (s *Service) ConfirmAttendance(ctx context.Context, scannerID primitive.ObjectID, scanned string) (res *AttendanceResult, err error) {
	ctx, span := s.start(ctx, "ConfirmAttendance", attribute.String("user_id", scannerID.Hex()))
	defer func() { finish(span, err) }()

	token, ok := s.tokens.Parse(scanned)
	if !ok {
		return nil, newError(KindInvalidToken, "invalid code")
	}

	ev, err := s.events.GetByToken(ctx, token)
	if err != nil {
		err = storageError(err, "")
		if KindOf(err) == KindNotFound {
			return nil, newError(KindInvalidToken, "invalid code")
		}
		s.warnTransient("confirm attendance", err, zap.String("user_id", scannerID.Hex()))
		return nil, err
	}
	span.SetAttributes(attribute.String("event_id", ev.ID.Hex()))
	fields := []zap.Field{zap.String("event_id", ev.ID.Hex()), zap.String("user_id", scannerID.Hex())}

	if !ev.HasVolunteer(scannerID) {
		return nil, newError(KindNotRegistered, "you are not registered for this event")
	}

	changed, err := s.users.MarkAttended(ctx, scannerID, ev.ID)
	if err != nil {
		err = storageError(err, "user not found")
		s.warnTransient("confirm attendance", err, fields...)
		return nil, err
	}
	if !changed {
		return &AttendanceResult{Event: summarize(ev), AlreadyConfirmed: true}, nil
	}

	s.log.Info("attendance confirmed", fields...)
	s.audit.AttendanceConfirmed(ctx, ev.ID, scannerID)
	return &AttendanceResult{Event: summarize(ev)}, nil
}
