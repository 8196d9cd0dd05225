package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"minutes-backend/internal/bootstrap"
	"minutes-backend/internal/shared/config"
	"minutes-backend/internal/shared/server"
	"minutes-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildContext(ctx, cfg)
	if err != nil {
		telemetry.Error("bootstrap.failed", map[string]any{"error": err})
		os.Exit(1)
	}
	if app.DB != nil {
		defer app.DB.Close()
	}

	if err := server.ListenAndServe(ctx, server.Addr(cfg.Port), app.Router); err != nil {
		telemetry.Error("server.failed", map[string]any{"error": err, "env": cfg.Env})
		os.Exit(1)
	}
}
