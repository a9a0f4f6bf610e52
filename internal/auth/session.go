package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Session is the identity attached to an authenticated admin request.
type Session struct {
	AdminID  uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
}

// SessionStore keeps sessions in Redis under a TTL so every token is
// time-bound and revocable server-side. Nothing the client holds is
// trusted beyond the random token itself.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

const sessionKeyPrefix = "session:"

// NewSessionStore creates a session store. ttl bounds every session's
// lifetime; zero means one hour.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionStore{client: client, ttl: ttl}
}

// generateToken creates a random session token
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Create mints a token and stores the session under it with the TTL.
func (st *SessionStore) Create(ctx context.Context, session Session) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	if err := st.client.Set(ctx, sessionKeyPrefix+token, data, st.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Get resolves a token to its session. A missing, expired, or malformed
// entry yields (nil, nil), never an authentication crash. Malformed
// entries are deleted on sight.
func (st *SessionStore) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}

	data, err := st.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil || session.AdminID == uuid.Nil {
		st.client.Del(ctx, sessionKeyPrefix+token)
		return nil, nil
	}
	return &session, nil
}

// Delete revokes a token. Deleting an unknown token is not an error.
func (st *SessionStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return st.client.Del(ctx, sessionKeyPrefix+token).Err()
}

// TTL returns the configured session lifetime.
func (st *SessionStore) TTL() time.Duration {
	return st.ttl
}
