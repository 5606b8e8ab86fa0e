package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"log/slog"
	"os"

	"seo-backend/internal/shared/config"
	"seo-backend/internal/shared/storage/db"
	"seo-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Setup("seo-migrate", cfg.LogLevel, cfg.LogFile)
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("migrations applied")
}
