package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/storefront-labs/storefront-api/internal/platform/logger"
	"github.com/storefront-labs/storefront-api/internal/platform/postgres/migrations"
)

// migrationsDir is the directory of the embedded migration files.
const migrationsDir = "."

var migrateCommands = []struct {
	name  string
	short string
}{
	{"up", "Apply all pending migrations"},
	{"down", "Roll back the most recent migration"},
	{"status", "Show the status of every migration"},
	{"reset", "Roll back all migrations"},
	{"version", "Print the current schema version"},
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long: `Run the embedded goose migrations against the configured database.

Subcommands:
  up       - Apply pending migrations
  down     - Roll back the last migration
  status   - Show migration status
  reset    - Roll back every migration
  version  - Print the current version`,
	}

	for _, mc := range migrateCommands {
		command := mc.name
		cmd.AddCommand(&cobra.Command{
			Use:   command,
			Short: mc.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrations(cmd.Context(), command)
			},
		})
	}
	return cmd
}

// runMigrations loads configuration and runs one goose command.
func runMigrations(ctx context.Context, command string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	if _, err := logger.Setup(cfg.Server); err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log := slog.Default().With(
		"correlation_id", uuid.New().String(),
		"component", "migrations",
		"command", command,
	)
	log.Info("Using database URL",
		"url", maskDatabaseURL(cfg.Database.URL),
		"host", extractHostFromURL(cfg.Database.URL))

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Error("Error closing database connection", "error", cerr)
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	start := time.Now()
	err = executeMigration(ctx, db, command, log)
	log.Info("Migration operation completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"success", err == nil)
	return err
}

// executeMigration runs command against db using the embedded migrations.
func executeMigration(ctx context.Context, db *sql.DB, command string, log *slog.Logger) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(&slogGooseLogger{})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	var err error
	switch command {
	case "up":
		err = goose.UpContext(ctx, db, migrationsDir)
	case "down":
		err = goose.DownContext(ctx, db, migrationsDir)
	case "status":
		err = goose.StatusContext(ctx, db, migrationsDir)
	case "reset":
		err = goose.ResetContext(ctx, db, migrationsDir)
	case "version":
		var version int64
		version, err = goose.GetDBVersionContext(ctx, db)
		if err == nil {
			log.Info("Current schema version", "version", version)
		}
	default:
		return fmt.Errorf("unknown migration command: %q", command)
	}
	if err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}
	return nil
}

// slogGooseLogger adapts the goose logger interface to use slog
type slogGooseLogger struct{}

// Printf implements the goose.Logger Printf method by forwarding messages to slog.Info
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Fatalf forwards to slog.Error. It does not exit; errors are returned to
// the command, which decides the exit code.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// maskDatabaseURL masks the password in a database URL for safe logging.
func maskDatabaseURL(dbURL string) string {
	parsedURL, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}
	if parsedURL.User != nil {
		if _, hasPassword := parsedURL.User.Password(); hasPassword {
			parsedURL.User = url.UserPassword(parsedURL.User.Username(), "****")
		}
		return parsedURL.String()
	}
	return dbURL
}

// extractHostFromURL extracts the hostname from a database URL for logging
func extractHostFromURL(dbURL string) string {
	parsedURL, err := url.Parse(dbURL)
	if err != nil {
		return "unknown"
	}
	return parsedURL.Hostname()
}
