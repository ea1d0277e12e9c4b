// internal/app/features/apierr/apierr.go
package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/cleanupcrew/internal/app/system/requestid"
	"github.com/dalemusser/cleanupcrew/internal/app/volunteer"
	"go.uber.org/zap"
)

// Body is the JSON error envelope.
type Body struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Status maps an engine error kind to an HTTP status.
func Status(k volunteer.Kind) int {
	switch k {
	case volunteer.KindValidation:
		return http.StatusBadRequest
	case volunteer.KindNotFound, volunteer.KindInvalidToken:
		return http.StatusNotFound
	case volunteer.KindNotRegistered, volunteer.KindForbidden:
		return http.StatusForbidden
	case volunteer.KindSelfRegistration:
		return http.StatusConflict
	case volunteer.KindTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func code(k volunteer.Kind) string {
	switch k {
	case volunteer.KindValidation:
		return "validation"
	case volunteer.KindNotFound:
		return "not_found"
	case volunteer.KindInvalidToken:
		return "invalid_token"
	case volunteer.KindNotRegistered:
		return "not_registered"
	case volunteer.KindForbidden:
		return "forbidden"
	case volunteer.KindSelfRegistration:
		return "self_registration"
	case volunteer.KindTransient:
		return "unavailable"
	default:
		return "internal"
	}
}

// Write renders err as a JSON error. Engine errors keep their message;
// anything else is logged and reported as a 500 without detail.
func Write(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	k := volunteer.KindOf(err)
	status := Status(k)

	msg := "internal error"
	var e *volunteer.Error
	if errors.As(err, &e) {
		msg = e.Message
		if msg == "" {
			msg = k.String()
		}
	}

	switch {
	case k == volunteer.KindTransient:
		log.Warn("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestid.From(r.Context())),
			zap.Error(err))
	case status >= 500:
		log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestid.From(r.Context())),
			zap.Error(err))
	}

	JSON(w, status, Body{
		Error:     code(k),
		Message:   msg,
		RequestID: requestid.From(r.Context()),
	})
}

// BadRequest renders a 400 for malformed input the engine never saw.
func BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	JSON(w, http.StatusBadRequest, Body{
		Error:     "bad_request",
		Message:   msg,
		RequestID: requestid.From(r.Context()),
	})
}

// NotFound renders a 404 for a path parameter that cannot name anything.
func NotFound(w http.ResponseWriter, r *http.Request, msg string) {
	JSON(w, http.StatusNotFound, Body{
		Error:     "not_found",
		Message:   msg,
		RequestID: requestid.From(r.Context()),
	})
}

// JSON writes v with status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
