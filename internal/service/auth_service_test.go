package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailsbe/internal/model"
	"mailsbe/internal/util"
)

type stubUserStore struct {
	byEmail map[string]*model.User
	nextID  int
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{byEmail: map[string]*model.User{}}
}

func (s *stubUserStore) Create(ctx context.Context, u *model.User) error {
	s.nextID++
	u.ID = s.nextID
	s.byEmail[u.Email] = u
	return nil
}

func (s *stubUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func TestRegister(t *testing.T) {
	store := newStubUserStore()
	s := NewAuthService(store, "secret")

	u, err := s.Register(context.Background(), "alex@example.com", "hunter2hunter2")

	require.NoError(t, err)
	assert.Equal(t, 1, u.ID)
	assert.NotEqual(t, "hunter2hunter2", u.PasswordHash, "password must not be stored in plaintext")
	assert.True(t, util.CheckPassword("hunter2hunter2", u.PasswordHash))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := newStubUserStore()
	s := NewAuthService(store, "secret")

	_, err := s.Register(context.Background(), "alex@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, err = s.Register(context.Background(), "alex@example.com", "otherpassword")
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLogin(t *testing.T) {
	store := newStubUserStore()
	s := NewAuthService(store, "secret")

	_, err := s.Register(context.Background(), "alex@example.com", "hunter2hunter2")
	require.NoError(t, err)

	token, err := s.Login(context.Background(), "alex@example.com", "hunter2hunter2")
	require.NoError(t, err)

	userID, err := util.ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, 1, userID)
}

func TestLogin_BadCredentials(t *testing.T) {
	store := newStubUserStore()
	s := NewAuthService(store, "secret")

	_, err := s.Register(context.Background(), "alex@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, err = s.Login(context.Background(), "alex@example.com", "wrong")
	assert.Error(t, err)

	_, err = s.Login(context.Background(), "nobody@example.com", "hunter2hunter2")
	assert.Error(t, err)
}
