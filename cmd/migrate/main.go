package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"minutes-backend/internal/shared/config"
	"minutes-backend/internal/shared/storage/db"
	"minutes-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.SetLevel(cfg.LogLevel)
	ctx := context.Background()

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.DefaultOptions(db.ProfileMigrate).WithEnv())
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err})
		os.Exit(1)
	}

	versions, _ := db.MigrationVersions()
	telemetry.Info("migrate.done", map[string]any{"versions": versions})
}
