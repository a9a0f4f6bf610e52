package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"syscall"

	_ "github.com/lib/pq"
	"golang.org/x/term"

	"github.com/optiflow/site-backend/internal/auth"
	"github.com/optiflow/site-backend/internal/config"
	"github.com/optiflow/site-backend/internal/store"
)

// create-admin provisions an admin account. The password is read from
// the terminal (or ADMIN_PASSWORD for non-interactive use) and only its
// bcrypt hash is stored.
func main() {
	username := flag.String("username", "", "admin username (required)")
	email := flag.String("email", "", "admin email (required)")
	flag.Parse()

	if *username == "" || *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			log.Fatalf("read password: %v", err)
		}
		password = string(raw)
	}
	if len(password) < 8 {
		log.Fatal("password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	db, err := store.Open(cfg.Database)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close()

	st := store.New(db)
	ctx := context.Background()

	existing, err := st.GetAdminByUsername(ctx, *username)
	if err != nil {
		log.Fatalf("lookup admin: %v", err)
	}
	if existing != nil {
		log.Fatalf("admin %q already exists", *username)
	}

	admin := &store.AdminUser{
		Username:     *username,
		Email:        *email,
		PasswordHash: hash,
	}
	if err := st.CreateAdmin(ctx, admin); err != nil {
		log.Fatalf("create admin: %v", err)
	}

	log.Printf("created admin %s (%s)", admin.Username, admin.ID)
}
