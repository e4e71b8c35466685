// Package main is the entrypoint for the user API server.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/restdemo/userapi/internal/config"
	"github.com/restdemo/userapi/internal/metrics"
	"github.com/restdemo/userapi/internal/repository"
	"github.com/restdemo/userapi/internal/router"
	"github.com/restdemo/userapi/internal/server"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)
	warnProductionDefaults(cfg, logger)

	ids, err := repository.NewIDGenerator(cfg.UserIDStrategy)
	if err != nil {
		logger.Error("failed to create id generator", "error", err)
		os.Exit(1)
	}
	repo := repository.New(repository.WithIDGenerator(ids))
	logger.Info("user store ready", "id_strategy", cfg.UserIDStrategy)

	r, err := router.Build(cfg, logger, repo, metrics.NewInMemory())
	if err != nil {
		logger.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	srv := server.New(
		r,
		cfg.Addr(),
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	srv.OnShutdown("store", func(context.Context) error {
		return repo.Close()
	})

	logger.Info("starting server",
		"addr", cfg.Addr(),
		"env", cfg.AppEnv,
		"version", cfg.AppVersion,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h).With("app", cfg.AppName)
	slog.SetDefault(logger)

	return logger
}

// warnProductionDefaults logs settings that are unsafe outside development.
func warnProductionDefaults(cfg *config.Config, logger *slog.Logger) {
	if !cfg.IsProduction() {
		return
	}
	if cfg.CORSAllowedOrigins == "*" {
		logger.Warn("cors allows any origin in production", "cors_allowed_origins", cfg.CORSAllowedOrigins)
	}
	if cfg.LogLevel == "debug" {
		logger.Warn("debug logging enabled in production")
	}
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
