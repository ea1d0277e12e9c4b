// internal/app/volunteer/service.go

// Package volunteer is the event registration and attendance engine.
//
// A Service decides who may register for an event, issues each event its
// attendance token, and turns a scanned token into an attendance fact. It
// is the only writer of the volunteer/registration/attendance relation.
// Identity is an input: every operation takes the acting user's ID and
// trusts it.
//
// All operations take a context; callers set the deadline (see the
// timeouts package). Storage failures surface as KindTransient and are
// never retried here.
package volunteer

import (
	"context"
	"time"

	"github.com/dalemusser/cleanupcrew/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// UserStore is the user side of the relation.
type UserStore interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	MarkAttended(ctx context.Context, userID, eventID primitive.ObjectID) (bool, error)
}

// EventStore is the event side, including the two-sided registration write.
type EventStore interface {
	Create(ctx context.Context, ev models.Event) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	GetByToken(ctx context.Context, token string) (*models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	ListByOrganizer(ctx context.Context, userID primitive.ObjectID) ([]models.Event, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Event, error)
	AddVolunteer(ctx context.Context, eventID, userID primitive.ObjectID) (bool, error)
}

// TokenGenerator issues attendance tokens and recognizes them again when
// scanned. Parse returns the token a scanned payload carries, and false
// when the payload cannot be one of its tokens.
type TokenGenerator interface {
	Generate(eventID primitive.ObjectID) (string, error)
	Parse(payload string) (string, bool)
}

// Auditor records engine writes. Implementations must not block for long
// and must not fail the caller.
type Auditor interface {
	EventCreated(ctx context.Context, ev *models.Event)
	Registered(ctx context.Context, eventID, userID primitive.ObjectID)
	AttendanceConfirmed(ctx context.Context, eventID, userID primitive.ObjectID)
}

// Deps wires a Service. Users, Events and Tokens are required.
type Deps struct {
	Users  UserStore
	Events EventStore
	Tokens TokenGenerator
	Audit  Auditor     // optional
	Log    *zap.Logger // optional
	Now    func() time.Time
}

// Service implements the engine operations.
type Service struct {
	users  UserStore
	events EventStore
	tokens TokenGenerator
	audit  Auditor
	log    *zap.Logger
	now    func() time.Time
	tracer trace.Tracer
}

// New returns a Service over d.
func New(d Deps) *Service {
	s := &Service{
		users:  d.Users,
		events: d.Events,
		tokens: d.Tokens,
		audit:  d.Audit,
		log:    d.Log,
		now:    d.Now,
		tracer: otel.Tracer("github.com/dalemusser/cleanupcrew/internal/app/volunteer"),
	}
	if s.audit == nil {
		s.audit = nopAuditor{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	return s
}

// maxTokenAttempts bounds how often CreateEvent asks for a new token after
// a collision.
const maxTokenAttempts = 3

func (s *Service) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "volunteer."+op, trace.WithAttributes(attrs...))
}

// finish records err on span and ends it.
func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, KindOf(err).String())
	}
	span.End()
}

func (s *Service) warnTransient(op string, err error, fields ...zap.Field) {
	if KindOf(err) == KindTransient {
		s.log.Warn(op+" failed", append(fields, zap.Error(err))...)
	}
}

type nopAuditor struct{}

func (nopAuditor) EventCreated(context.Context, *models.Event)                        {}
func (nopAuditor) Registered(context.Context, primitive.ObjectID, primitive.ObjectID) {}
func (nopAuditor) AttendanceConfirmed(context.Context, primitive.ObjectID, primitive.ObjectID) {
}

// Auditors fans each hook out to every non-nil a, in order.
func Auditors(a ...Auditor) Auditor {
	var list multiAuditor
	for _, x := range a {
		if x != nil {
			list = append(list, x)
		}
	}
	return list
}

type multiAuditor []Auditor

func (m multiAuditor) EventCreated(ctx context.Context, ev *models.Event) {
	for _, a := range m {
		a.EventCreated(ctx, ev)
	}
}

func (m multiAuditor) Registered(ctx context.Context, eventID, userID primitive.ObjectID) {
	for _, a := range m {
		a.Registered(ctx, eventID, userID)
	}
}

func (m multiAuditor) AttendanceConfirmed(ctx context.Context, eventID, userID primitive.ObjectID) {
	for _, a := range m {
		a.AttendanceConfirmed(ctx, eventID, userID)
	}
}
