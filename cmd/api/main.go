package main

import (
	"context"
	"log/slog"
	"os"

	"seo-backend/internal/bootstrap"
	"seo-backend/internal/shared/config"
	"seo-backend/internal/shared/server"
	"seo-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Setup("seo-api", cfg.LogLevel, cfg.LogFile)

	app, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		slog.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	addr := server.Addr(cfg.Port)
	slog.Info("starting API server", "addr", addr, "env", cfg.Env)

	if err := app.Router.Run(addr); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
