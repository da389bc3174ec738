package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/registros/internal/config"
)

// DefaultImportTimeout bounds a single import when the config leaves it unset.
var DefaultImportTimeout = 5 * time.Minute

// Service provides the core business logic for registros and spreadsheet imports.
type Service struct {
	store    Store
	limiter  *ImportLimiter
	validate *validator.Validate

	uploadsDir        string
	exportsDir        string
	maxFileSize       int64
	allowedExtensions []string
	importTimeout     time.Duration
}

// NewService creates a Service on store and makes sure the uploads and
// exports directories exist.
func NewService(store Store, cfg *config.Config) (*Service, error) {
	for _, dir := range []string{cfg.Storage.UploadsDir, cfg.Storage.ExportsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	timeout := cfg.Upload.Timeout
	if timeout <= 0 {
		timeout = DefaultImportTimeout
	}

	return &Service{
		store:             store,
		limiter:           NewImportLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		validate:          newValidator(),
		uploadsDir:        cfg.Storage.UploadsDir,
		exportsDir:        cfg.Storage.ExportsDir,
		maxFileSize:       cfg.Upload.MaxFileSize,
		allowedExtensions: cfg.Upload.AllowedExtensions,
		importTimeout:     timeout,
	}, nil
}

// Limiter exposes the import limiter for health reporting and shutdown draining.
func (s *Service) Limiter() *ImportLimiter {
	return s.limiter
}

// ExportsDir is where exported workbooks are written by file-based callers.
func (s *Service) ExportsDir() string {
	return s.exportsDir
}

// AllowedExtensions lists the accepted upload extensions.
func (s *Service) AllowedExtensions() []string {
	return s.allowedExtensions
}

// Ping checks that the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
