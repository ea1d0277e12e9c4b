// internal/app/store/storeerr/storeerr.go

// Package storeerr holds sentinel errors shared by every storage backend.
//
// Not-found is reported as mongo.ErrNoDocuments by all backends, matching
// what FindOne returns, so callers test for it one way.
package storeerr

import "errors"

var (
	// ErrDuplicateToken is returned by event creation when the attendance
	// token is already held by another event. Callers generate a new token.
	ErrDuplicateToken = errors.New("attendance token already in use")

	// ErrDuplicateEmail is returned when creating a user whose email exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
)
