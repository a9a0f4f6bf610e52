package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AdminUser is an account allowed to use the admin dashboard.
// PasswordHash is a bcrypt hash; the raw password is never stored.
type AdminUser struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// GetAdminByUsername retrieves an admin account by username.
// Returns (nil, nil) when no such account exists.
func (s *Store) GetAdminByUsername(ctx context.Context, username string) (*AdminUser, error) {
	query := `SELECT id, username, email, password_hash, created_at
		FROM admin_users WHERE username = $1`

	admin := &AdminUser{}
	err := s.db.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(username))).Scan(
		&admin.ID, &admin.Username, &admin.Email, &admin.PasswordHash, &admin.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return admin, err
}

// CreateAdmin creates a new admin account with a pre-computed password hash.
func (s *Store) CreateAdmin(ctx context.Context, admin *AdminUser) error {
	admin.ID = uuid.New()
	admin.Username = strings.ToLower(strings.TrimSpace(admin.Username))
	admin.CreatedAt = time.Now()

	query := `INSERT INTO admin_users (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := s.db.ExecContext(ctx, query, admin.ID, admin.Username, admin.Email,
		admin.PasswordHash, admin.CreatedAt)
	return err
}
