// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/platepicker/internal/app"
	"github.com/tomtom215/platepicker/internal/config"
	"github.com/tomtom215/platepicker/internal/logging"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("addr", cfg.Server.Addr()).
		Str("events_backend", cfg.Events.Backend).
		Msg("Starting PlatePicker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize application")
		os.Exit(1)
	}

	if err := a.Serve(ctx); err != nil {
		logging.Error().Err(err).Msg("Server failed")
	}

	if err := a.Close(); err != nil {
		logging.Error().Err(err).Msg("Error during shutdown")
	}
	logging.Info().Msg("Application stopped gracefully")
}
