package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func TestGetAdminByUsername(t *testing.T) {
	s, mock, cleanup := setupTestDB(t)
	defer cleanup()

	id := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}).
		AddRow(id, "ops", "ops@optiflow.io", "$2a$10$abcdefghijklmnopqrstuv", time.Now())

	mock.ExpectQuery("SELECT (.+) FROM admin_users WHERE username").
		WithArgs("ops").
		WillReturnRows(rows)

	admin, err := s.GetAdminByUsername(context.Background(), "  OPS ")
	if err != nil {
		t.Fatalf("GetAdminByUsername() error: %v", err)
	}
	if admin == nil {
		t.Fatal("GetAdminByUsername() returned nil for an existing account")
	}
	if admin.ID != id || admin.Email != "ops@optiflow.io" {
		t.Errorf("unexpected admin %+v", admin)
	}
}

func TestGetAdminByUsernameNotFound(t *testing.T) {
	s, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM admin_users WHERE username").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	admin, err := s.GetAdminByUsername(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("GetAdminByUsername() error: %v", err)
	}
	if admin != nil {
		t.Error("missing account should yield (nil, nil)")
	}
}

func TestCreateAdmin(t *testing.T) {
	s, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO admin_users").
		WillReturnResult(sqlmock.NewResult(0, 1))

	admin := &AdminUser{Username: " Ops ", Email: "ops@optiflow.io", PasswordHash: "hash"}
	if err := s.CreateAdmin(context.Background(), admin); err != nil {
		t.Fatalf("CreateAdmin() error: %v", err)
	}
	if admin.Username != "ops" {
		t.Errorf("username not normalized: %q", admin.Username)
	}
	if admin.ID == uuid.Nil {
		t.Error("CreateAdmin() did not assign an ID")
	}
}
