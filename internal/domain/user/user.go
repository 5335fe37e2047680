// Package user implements portal login for the dashboard users
// (admin, cashier, kitchen).
package user

import (
	"context"

	"github.com/go-faster/errors"
)

// User is a dashboard account scoped to a single portal.
type User struct {
	ID     string
	Portal string
	Email  string
	Name   string

	// Password is the stored credential. The seeded fixtures use plaintext
	// values, inherited from the data model this service fronts.
	Password string
}

var (
	// ErrNotFound means no user exists for the portal/email pair.
	ErrNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned for both unknown emails and wrong
	// passwords, so responses do not leak which one failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Repository provides user lookups by portal and email.
type Repository interface {
	FindByEmail(ctx context.Context, portal, email string) (*User, error)
}
