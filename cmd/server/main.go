package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/sheetresolver/internal/application"
	"github.com/JonMunkholm/sheetresolver/internal/config"
	"github.com/JonMunkholm/sheetresolver/internal/logging"
	"github.com/JonMunkholm/sheetresolver/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	// Background jobs and the rate limiter stop with this context
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	app, err := application.New(jobCtx, cfg)
	if err != nil {
		slog.Error("failed to start sheet resolver", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	app.StartJanitor(jobCtx)

	server := web.NewServer(jobCtx, app.Service, cfg)

	// Graceful shutdown
	idle := make(chan struct{})
	go func() {
		defer close(idle)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}

		// Drain in-flight fetches before the source is closed
		if status := app.Service.FetchStatus(); status.Active > 0 {
			slog.Info("waiting for fetches to complete", "active", status.Active)
			if err := app.Service.WaitForFetches(shutdownCtx); err != nil {
				slog.Warn("fetches did not complete in time", "error", err)
			}
		}

		cancelJobs()
	}()

	if err := server.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
	<-idle
	slog.Info("server stopped")
}
