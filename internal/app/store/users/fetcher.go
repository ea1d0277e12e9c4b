// internal/app/store/users/fetcher.go
package userstore

import (
	"context"

	"github.com/dalemusser/cleanupcrew/internal/app/system/auth"
	"github.com/dalemusser/cleanupcrew/internal/app/system/timeouts"
	"github.com/dalemusser/cleanupcrew/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Getter loads a user by ID. Both the Mongo store and the memory store
// satisfy it.
type Getter interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Fetcher implements auth.UserFetcher so each request sees the current
// user record rather than whatever was cached in the session cookie.
type Fetcher struct {
	users Getter
}

// NewFetcher creates a UserFetcher backed by users.
func NewFetcher(users Getter) *Fetcher {
	return &Fetcher{users: users}
}

// FetchUser returns nil if the ID is malformed, the user is gone, or the
// lookup fails.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	u, err := f.users.GetByID(ctx, oid)
	if err != nil {
		return nil
	}
	return &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.FullName,
		Email: u.Email,
	}
}
