package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/optiflow/site-backend/internal/store"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

type fakeAdminStore struct {
	admins map[string]*store.AdminUser
	err    error
}

func (f *fakeAdminStore) GetAdminByUsername(ctx context.Context, username string) (*store.AdminUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.admins[username], nil
}

func newTestService(t *testing.T) (*Service, *fakeAdminStore, *miniredis.Miniredis) {
	t.Helper()
	client, mr := setupTestRedis(t)

	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)

	admins := &fakeAdminStore{admins: map[string]*store.AdminUser{
		"admin": {
			ID:           uuid.New(),
			Username:     "admin",
			Email:        "admin@optiflow.io",
			PasswordHash: hash,
		},
	}}

	sessions := NewSessionStore(client, 30*time.Minute)
	return NewService(admins, sessions), admins, mr
}

func TestLoginSuccess(t *testing.T) {
	svc, admins, _ := newTestService(t)

	token, session, err := svc.Login(context.Background(), "admin", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotNil(t, session)
	assert.Equal(t, admins.admins["admin"].ID, session.AdminID)
	assert.Equal(t, "admin@optiflow.io", session.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, mr := newTestService(t)

	token, session, err := svc.Login(context.Background(), "admin", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, token)
	assert.Nil(t, session)
	assert.Empty(t, mr.Keys(), "no session may be written on a failed login")
}

func TestLoginUnknownUserSameFailure(t *testing.T) {
	svc, _, mr := newTestService(t)

	_, _, errUnknown := svc.Login(context.Background(), "ghost", "whatever")
	_, _, errWrongPw := svc.Login(context.Background(), "admin", "wrong")

	// Same error either way: account existence must not leak.
	require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	require.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	assert.Equal(t, errUnknown, errWrongPw)
	assert.Empty(t, mr.Keys())
}

func TestLoginStoreErrorIsNotInvalidCredentials(t *testing.T) {
	svc, admins, _ := newTestService(t)
	admins.err = errors.New("connection refused")

	_, _, err := svc.Login(context.Background(), "admin", "correct-horse")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidCredentials))
}

func TestSessionRoundTrip(t *testing.T) {
	svc, _, _ := newTestService(t)

	token, created, err := svc.Login(context.Background(), "admin", "correct-horse")
	require.NoError(t, err)

	resolved, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, created.AdminID, resolved.AdminID)
	assert.Equal(t, created.Email, resolved.Email)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, _ := newTestService(t)

	token, _, err := svc.Login(context.Background(), "admin", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), token))

	session, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Nil(t, session)

	// Logout of an already-revoked token still succeeds.
	require.NoError(t, svc.Logout(context.Background(), token))
}

func TestSessionExpires(t *testing.T) {
	svc, _, mr := newTestService(t)

	token, _, err := svc.Login(context.Background(), "admin", "correct-horse")
	require.NoError(t, err)

	mr.FastForward(31 * time.Minute)

	session, err := svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Nil(t, session, "session must expire with its TTL")
}

func TestAuthenticateMalformedSession(t *testing.T) {
	client, mr := setupTestRedis(t)
	sessions := NewSessionStore(client, time.Minute)

	mr.Set("session:garbage-token", "{not json")

	session, err := sessions.Get(context.Background(), "garbage-token")
	require.NoError(t, err)
	assert.Nil(t, session, "malformed session content is treated as unauthenticated")
	assert.False(t, mr.Exists("session:garbage-token"), "malformed entry is deleted")
}

func TestAuthenticateEmptyToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	session, err := svc.Authenticate(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, session)
}
