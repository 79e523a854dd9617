package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/storefront-labs/storefront-api/internal/config"
	"github.com/storefront-labs/storefront-api/internal/platform/logger"
	"github.com/storefront-labs/storefront-api/internal/platform/media"
	"github.com/storefront-labs/storefront-api/internal/platform/postgres"
	"github.com/storefront-labs/storefront-api/internal/service"
	"github.com/storefront-labs/storefront-api/internal/store"
)

// application holds the dependencies shared by the HTTP layer.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	db       *sql.DB
	store    store.Store
	uploader service.ImageUploader
}

// newApplication wires an application. db may be nil when s does not need
// a database connection.
func newApplication(
	cfg *config.Config,
	log *slog.Logger,
	db *sql.DB,
	s store.Store,
	uploader service.ImageUploader,
) *application {
	if uploader == nil {
		uploader = service.DisabledUploader{}
	}
	return &application{
		config:   cfg,
		logger:   log,
		db:       db,
		store:    s,
		uploader: uploader,
	}
}

// runServe loads configuration, connects to the database and serves HTTP
// until ctx is canceled or a shutdown signal arrives.
func runServe(ctx context.Context) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"environment", cfg.Server.Environment)

	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}

	uploader, err := setupUploader(cfg, log)
	if err != nil {
		_ = db.Close()
		return err
	}

	app := newApplication(cfg, log, db, postgres.NewStore(db, log), uploader)
	return app.startHTTPServer(ctx, app.setupRouter())
}

func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// setupUploader returns the Cloudinary uploader, or a disabled one when no
// credentials are configured.
func setupUploader(cfg *config.Config, log *slog.Logger) (service.ImageUploader, error) {
	if !cfg.Media.Enabled() {
		log.Warn("media credentials not configured, product images will not be uploaded")
		return service.DisabledUploader{}, nil
	}
	uploader, err := media.NewCloudinaryUploader(cfg.Media, log)
	if err != nil {
		return nil, fmt.Errorf("failed to set up media uploader: %w", err)
	}
	log.Info("Media uploader configured", "folder", cfg.Media.Folder)
	return uploader, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("Error closing database connection", "error", err)
		return
	}
	app.logger.Info("Database connection closed")
}
