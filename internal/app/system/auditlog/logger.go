// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"

	"github.com/dalemusser/cleanupcrew/internal/app/store/audit"
	"github.com/dalemusser/cleanupcrew/internal/app/system/requestid"
	"github.com/dalemusser/cleanupcrew/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
type Config struct {
	// Auth covers login, signup and logout.
	Auth string
	// Volunteer covers event creation, registration and attendance.
	Volunteer string
}

// Sink persists audit events. *audit.Store implements it.
type Sink interface {
	Log(ctx context.Context, event audit.Event) error
}

// Logger records audit events to a Sink and to zap according to Config.
// It satisfies volunteer.Auditor.
type Logger struct {
	store  Sink
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger. store may be nil, in which case "all"
// and "db" behave like "log".
func New(store Sink, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}
	if event.UserID != nil {
		fields = append(fields, zap.String("user_id", event.UserID.Hex()))
	}
	if event.EventID != nil {
		fields = append(fields, zap.String("event_id", event.EventID.Hex()))
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryVolunteer:
		setting = l.config.Volunteer
	default:
		setting = "all"
	}
	if setting == "" || setting == "off" {
		return
	}

	if event.RequestID == "" {
		event.RequestID = requestid.From(ctx)
	}

	toDB := (setting == "all" || setting == "db") && l.store != nil
	if setting == "all" || setting == "log" || (setting == "db" && l.store == nil) {
		l.logToZap(event)
	}
	if toDB {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// --- Authentication Events ---

// LoginSuccess logs a sign-in. created is true when the sign-in also
// created the account.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID primitive.ObjectID, created bool) {
	eventType := audit.EventLoginSuccess
	if created {
		eventType = audit.EventSignup
	}
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: eventType,
		UserID:    &userID,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	})
}

// Logout logs a sign-out. An empty or malformed userID is recorded without
// a user.
func (l *Logger) Logout(ctx context.Context, r *http.Request, userID string) {
	ev := audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLogout,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	}
	if oid, err := primitive.ObjectIDFromHex(userID); err == nil {
		ev.UserID = &oid
	}
	l.Log(ctx, ev)
}

// --- Volunteer Events ---

// EventCreated logs a new cleanup event.
func (l *Logger) EventCreated(ctx context.Context, ev *models.Event) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryVolunteer,
		EventType: audit.EventEventCreated,
		UserID:    &ev.OrganizerID,
		EventID:   &ev.ID,
		Success:   true,
		Details:   map[string]string{"title": ev.Title},
	})
}

// Registered logs a new volunteer registration.
func (l *Logger) Registered(ctx context.Context, eventID, userID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryVolunteer,
		EventType: audit.EventVolunteerRegistered,
		UserID:    &userID,
		EventID:   &eventID,
		Success:   true,
	})
}

// AttendanceConfirmed logs the first confirmation of attendance.
func (l *Logger) AttendanceConfirmed(ctx context.Context, eventID, userID primitive.ObjectID) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryVolunteer,
		EventType: audit.EventAttendanceConfirmed,
		UserID:    &userID,
		EventID:   &eventID,
		Success:   true,
	})
}
