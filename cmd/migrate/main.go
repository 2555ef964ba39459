// Command migrate manages the database schema.
//
//	go run ./cmd/migrate [up|down|status|version]
//
// With no argument it applies every pending migration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"cv-analyzer/internal/shared/config"
	"cv-analyzer/internal/shared/storage/db"
	"cv-analyzer/internal/shared/telemetry"
)

func main() {
	command := db.MigrateUp
	if len(os.Args) > 1 {
		command = os.Args[1]
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config.Load(), command); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"command": command, "error": err.Error()})
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, command string) error {
	telemetry.SetLevel(cfg.LogLevel)
	sqlDB, err := db.Open(ctx, cfg.DatabaseURL, db.SettingsFromEnv(db.ProfileMigrate))
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := db.Migrate(ctx, sqlDB, command); err != nil {
		return err
	}
	version, err := db.MigrationVersion(ctx, sqlDB)
	if err != nil {
		telemetry.Warn("migrate.version_unknown", map[string]any{"error": err.Error()})
		return nil
	}
	telemetry.Info("migrate.done", map[string]any{"command": command, "version": version})
	return nil
}
