// internal/app/volunteer/accounts.go
package volunteer

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/dalemusser/cleanupcrew/internal/app/store/storeerr"
	"github.com/dalemusser/cleanupcrew/internal/domain/models"
	"go.uber.org/zap"
)

// SignIn finds the user with email, creating one named name on first use.
// It does not verify credentials; the caller already has.
func (s *Service) SignIn(ctx context.Context, name, email string) (u *models.User, created bool, err error) {
	ctx, span := s.start(ctx, "SignIn")
	defer func() { finish(span, err) }()

	email = strings.TrimSpace(email)
	if _, perr := mail.ParseAddress(email); perr != nil {
		return nil, false, newError(KindValidation, "a valid email is required")
	}

	u, err = s.users.GetByEmail(ctx, email)
	if err == nil {
		return u, false, nil
	}
	if err = storageError(err, ""); KindOf(err) != KindNotFound {
		s.warnTransient("sign in", err)
		return nil, false, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, newError(KindValidation, "name is required")
	}
	nu, err := s.users.Create(ctx, models.User{FullName: name, Email: email})
	if errors.Is(err, storeerr.ErrDuplicateEmail) {
		// Concurrent first sign-in with the same email.
		u, err = s.users.GetByEmail(ctx, email)
		if err != nil {
			return nil, false, storageError(err, "user not found")
		}
		return u, false, nil
	}
	if err != nil {
		err = storageError(err, "")
		s.warnTransient("sign in", err)
		return nil, false, err
	}

	s.log.Info("user created", zap.String("user_id", nu.ID.Hex()))
	return &nu, true, nil
}
