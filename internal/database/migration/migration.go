package migration

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var migrations embed.FS

// dialects maps a database driver to its goose dialect and migrations directory.
var dialects = map[string]struct {
	dialect string
	dir     string
}{
	"postgres": {dialect: "postgres", dir: "postgres"},
	"sqlite":   {dialect: "sqlite3", dir: "sqlite"},
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// EnsureMigrated applies every pending embedded migration for driver.
// Already applied versions are skipped by goose, so it is safe to call on every start.
func EnsureMigrated(ctx context.Context, db *sql.DB, driver string, log *slog.Logger) error {
	start := time.Now()
	log = log.With("component", "database", "driver", driver)

	d, ok := dialects[driver]
	if !ok {
		return fmt.Errorf("no migrations for driver %q", driver)
	}

	log.Info("db_migration_start", "status", "in_progress")

	goose.SetBaseFS(migrations)
	goose.SetLogger(&gooseLogger{log: log})
	if err := goose.SetDialect(d.dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := gooseUpContext(ctx, db, d.dir); err != nil {
		log.Error("db_migration_failed",
			"status", "error",
			"error_message", err.Error(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("migrate: %w", err)
	}

	log.Info("db_migration_success",
		"status", "success",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// gooseLogger routes goose progress lines into the structured logger.
type gooseLogger struct {
	log *slog.Logger
}

func (g *gooseLogger) Printf(format string, v ...any) {
	g.log.Info("db_migration_step", "status", "success", "detail", strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g *gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error("db_migration_failed", "status", "error", "error_message", strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}
