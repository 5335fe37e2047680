package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tablepay/tablepay/internal/domain/user"
)

const getUserByEmailSQL = `SELECT id, portal, email, password, name
	FROM users WHERE portal = $1 AND email = $2`

var _ user.Repository = (*UserRepository)(nil)

// UserRepository provides portal user lookups backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// FindByEmail looks up a user by portal and email, or returns user.ErrNotFound.
func (r *UserRepository) FindByEmail(ctx context.Context, portal, email string) (*user.User, error) {
	var u user.User
	err := r.pool.QueryRow(ctx, getUserByEmailSQL, portal, email).Scan(
		&u.ID, &u.Portal, &u.Email, &u.Password, &u.Name,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("finding user %q in portal %q: %w", email, portal, err)
	}
	return &u, nil
}
