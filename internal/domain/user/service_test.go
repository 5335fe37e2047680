package user

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	users map[string]*User // portal + "/" + email
	err   error
}

func (m *mockRepo) FindByEmail(_ context.Context, portal, email string) (*User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[portal+"/"+email]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func newRepo(users ...*User) *mockRepo {
	byKey := make(map[string]*User, len(users))
	for _, u := range users {
		byKey[u.Portal+"/"+u.Email] = u
	}
	return &mockRepo{users: byKey}
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(newRepo(&User{
		ID:       "u1",
		Portal:   "kitchen",
		Email:    "kitchen@tablepay.com",
		Name:     "Kitchen",
		Password: "kitchen_pass",
	}))

	u, err := svc.Authenticate(context.Background(), "Kitchen", "kitchen@tablepay.com", "kitchen_pass")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	svc := NewService(newRepo(&User{
		Portal:   "admin",
		Email:    "admin@tablepay.com",
		Password: "admin_pass",
	}))

	_, err := svc.Authenticate(context.Background(), "admin", "admin@tablepay.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_UnknownEmail(t *testing.T) {
	svc := NewService(newRepo())

	_, err := svc.Authenticate(context.Background(), "admin", "ghost@tablepay.com", "x")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_RepoError(t *testing.T) {
	svc := NewService(&mockRepo{err: errors.New("db down")})

	_, err := svc.Authenticate(context.Background(), "admin", "admin@tablepay.com", "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}
