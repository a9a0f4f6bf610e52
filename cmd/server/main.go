package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/optiflow/site-backend/internal/api"
	"github.com/optiflow/site-backend/internal/auth"
	"github.com/optiflow/site-backend/internal/config"
	"github.com/optiflow/site-backend/internal/content"
	"github.com/optiflow/site-backend/internal/leads"
	"github.com/optiflow/site-backend/internal/notify"
	"github.com/optiflow/site-backend/internal/pkg/logger"
	"github.com/optiflow/site-backend/internal/storage"
	"github.com/optiflow/site-backend/internal/store"
)

// checkPortAvailable verifies that the target port is not already in use.
// This prevents confusion from stale processes occupying the port.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v\n"+
			"  Hint: run 'lsof -i :%d' to find the blocking process", port, addr, err, port)
	}
	ln.Close()
	return nil
}

// extractHost pulls the host portion out of a Postgres DSN for logging
// without exposing credentials.
func extractHost(dsn string) string {
	at := strings.Index(dsn, "@")
	if at < 0 {
		return "(unknown)"
	}
	rest := dsn[at+1:]
	if slash := strings.Index(rest, "/"); slash >= 0 {
		rest = rest[:slash]
	}
	return rest
}

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		logger.SetLevel(logger.ParseLevel(level))
	}

	// Pre-flight check: verify the target port is available
	host := cfg.Server.GetHost()
	port := cfg.Server.Port
	if err := checkPortAvailable(host, port); err != nil {
		log.Fatalf("Pre-flight check failed: %v", err)
	}

	// PostgreSQL
	db, err := store.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	st := store.New(db)
	logger.Info("database connected", "host", extractHost(cfg.Database.URL))

	// Redis (admin sessions)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	logger.Info("redis connected", "addr", cfg.Redis.Addr)

	sessions := auth.NewSessionStore(redisClient, cfg.Auth.SessionTTL())
	authSvc := auth.NewService(st, sessions)

	// Lead fan-out targets. Webhook delivery is best-effort: failures are
	// logged and never retried.
	contactTargets := notify.WebhookTargets(cfg.Leads.ContactWebhookURLs)
	resourceTargets := notify.WebhookTargets(cfg.Leads.ResourceWebhookURLs)
	if cfg.Notify.EmailEnabled {
		emailTarget, err := notify.NewEmailTarget(context.Background(), cfg.Notify)
		if err != nil {
			log.Fatalf("Failed to initialize SES notifications: %v", err)
		}
		contactTargets = append(contactTargets, emailTarget)
		resourceTargets = append(resourceTargets, emailTarget)
		logger.Info("sales email notifications enabled", "from", cfg.Notify.FromAddress)
	}
	contactFanout := notify.NewFanout(contactTargets, cfg.Leads.WebhookTimeout())
	resourceFanout := notify.NewFanout(resourceTargets, cfg.Leads.WebhookTimeout())
	logger.Info("lead fan-out configured",
		"contact_targets", len(contactTargets), "resource_targets", len(resourceTargets))

	// Resource file storage (optional)
	var files *storage.FileStore
	if cfg.Storage.S3Bucket != "" {
		files, err = storage.New(context.Background(), cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize file storage: %v", err)
		}
		logger.Info("resource file storage enabled", "bucket", cfg.Storage.S3Bucket)
	} else {
		logger.Warn("no S3 bucket configured; resource downloads disabled")
	}

	var linker leads.DownloadLinker
	var fileStorage api.FileStorage
	if files != nil {
		linker = files
		fileStorage = files
	}
	leadSvc := leads.NewService(st, st, contactFanout, resourceFanout, linker)

	handlers := api.NewHandlers(st, authSvc, leadSvc,
		content.NewRenderer(), content.NewRSSImporter(st),
		fileStorage, api.NewHealthChecker(db, redisClient), cfg)
	server := api.NewServer(cfg.Server, handlers)

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf("%s:%d", host, port)
		logger.Info("server listening", "addr", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	// Let in-flight webhook deliveries finish before exit.
	contactFanout.Wait()
	resourceFanout.Wait()

	logger.Info("server stopped")
}
