// Package auth implements admin authentication for the dashboard:
// bcrypt credential verification against Postgres and revocable,
// TTL-bound sessions in Redis.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/optiflow/site-backend/internal/pkg/logger"
	"github.com/optiflow/site-backend/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both an unknown username and a wrong
// password. Callers must not distinguish the two: the login response
// never leaks whether an account exists.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AdminStore looks up admin accounts.
type AdminStore interface {
	GetAdminByUsername(ctx context.Context, username string) (*store.AdminUser, error)
}

// Service handles admin login, logout, and request authentication.
type Service struct {
	admins   AdminStore
	sessions *SessionStore
}

// NewService creates an authentication service.
func NewService(admins AdminStore, sessions *SessionStore) *Service {
	return &Service{admins: admins, sessions: sessions}
}

// dummyHash keeps the bcrypt comparison cost constant whether or not the
// account exists, so response timing does not reveal valid usernames.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Login verifies the credentials and mints a session on success.
// Transport-level failures (database or Redis unreachable) are returned
// as wrapped errors; bad credentials of either kind are ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (string, *Session, error) {
	admin, err := s.admins.GetAdminByUsername(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("lookup admin: %w", err)
	}

	if admin == nil {
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		logger.Warn("admin login rejected", "username", admin.Username)
		return "", nil, ErrInvalidCredentials
	}

	session := Session{AdminID: admin.ID, Email: admin.Email, Username: admin.Username}
	token, err := s.sessions.Create(ctx, session)
	if err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}

	logger.Info("admin logged in", "username", admin.Username)
	return token, &session, nil
}

// Logout revokes the session token unconditionally. Revoking an unknown
// or already-expired token succeeds.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves a token to its session, or (nil, nil) when the
// token is absent, expired, revoked, or malformed.
func (s *Service) Authenticate(ctx context.Context, token string) (*Session, error) {
	return s.sessions.Get(ctx, token)
}

// HashPassword produces a bcrypt hash for account provisioning.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// SessionTTL exposes the configured session lifetime for cookie max-age.
func (s *Service) SessionTTL() int {
	return int(s.sessions.TTL().Seconds())
}
