package api

import (
	"context"
	"io"

	"github.com/optiflow/site-backend/internal/auth"
	"github.com/optiflow/site-backend/internal/config"
	"github.com/optiflow/site-backend/internal/content"
	"github.com/optiflow/site-backend/internal/leads"
	"github.com/optiflow/site-backend/internal/store"
)

// FileStorage stores resource files. Nil when no bucket is configured;
// upload endpoints report 503 in that case.
type FileStorage interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, fileKey string) error
}

// Handlers holds all HTTP handlers and their dependencies
type Handlers struct {
	store     *store.Store
	auth      *auth.Service
	leads     *leads.Service
	renderer  *content.Renderer
	importer  *content.RSSImporter
	files     FileStorage
	health    *HealthChecker
	authCfg   config.AuthConfig
	maxUpload int64
}

// NewHandlers creates a new Handlers instance. files may be nil.
func NewHandlers(
	st *store.Store,
	authSvc *auth.Service,
	leadSvc *leads.Service,
	renderer *content.Renderer,
	importer *content.RSSImporter,
	files FileStorage,
	health *HealthChecker,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		store:     st,
		auth:      authSvc,
		leads:     leadSvc,
		renderer:  renderer,
		importer:  importer,
		files:     files,
		health:    health,
		authCfg:   cfg.Auth,
		maxUpload: int64(cfg.Storage.MaxUploadSizeMB) << 20,
	}
}
