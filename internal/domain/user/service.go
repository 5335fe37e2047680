package user

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/go-faster/errors"
)

// Service authenticates portal users.
type Service struct {
	repo Repository
}

// NewService creates a user Service over a repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Authenticate checks the credentials for a portal and returns the matching
// user. Portal names are case-insensitive.
func (s *Service) Authenticate(ctx context.Context, portal, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, strings.ToLower(portal), email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "find user")
	}

	if subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) != 1 {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}
