// internal/app/volunteer/errors.go
package volunteer

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// Kind classifies an engine failure. Callers branch on Kind, never on text.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindInvalidToken
	KindNotRegistered
	KindForbidden
	KindSelfRegistration
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindInvalidToken:
		return "invalid token"
	case KindNotRegistered:
		return "not registered"
	case KindForbidden:
		return "forbidden"
	case KindSelfRegistration:
		return "self registration"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Error is returned by every Service operation that fails.
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying storage error, if any
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so errors.Is(err, ErrNotFound)
// works regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is. Do not return these directly; use newError.
var (
	ErrValidation       = &Error{Kind: KindValidation}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrInvalidToken     = &Error{Kind: KindInvalidToken}
	ErrNotRegistered    = &Error{Kind: KindNotRegistered}
	ErrForbidden        = &Error{Kind: KindForbidden}
	ErrSelfRegistration = &Error{Kind: KindSelfRegistration}
	ErrTransient        = &Error{Kind: KindTransient}
)

// KindOf returns the Kind of err, or 0 if err is not an engine error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// storageError maps a store failure onto the taxonomy. A missing document
// becomes notFound; every other storage failure, including deadlines and
// network errors, is transient.
func storageError(err error, notFound string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &Error{Kind: KindNotFound, Message: notFound}
	}
	msg := "storage unavailable"
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || mongo.IsTimeout(err) {
		msg = "storage deadline exceeded"
	} else if mongo.IsNetworkError(err) {
		msg = "storage unreachable"
	}
	return &Error{Kind: KindTransient, Message: msg, Err: err}
}
