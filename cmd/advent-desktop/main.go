package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/belphemur/advent-calendar/internal/app"
	"github.com/belphemur/advent-calendar/internal/config"
	"github.com/belphemur/advent-calendar/internal/desktop"
	"github.com/belphemur/advent-calendar/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	isDev := os.Getenv("ENV") != "production"

	logging.Initialize(isDev)
	logger := logging.GetLogger("main")

	logger.Info().
		Str("version", version).
		Str("commit", commit).
		Str("build_date", date).
		Msg("Starting Advent Calendar window")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Application run failed")
	}
}

func run(ctx context.Context) error {
	logger := logging.GetLogger("main")

	configPath := app.ConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error().Err(err).Str("config_path", configPath).Msg("Failed to load configuration")
		return err
	}
	logging.SetLogLevel(cfg.Service.LogLevel)

	a, err := app.New(cfg)
	if err != nil {
		wrappedErr := fmt.Errorf("failed to start calendar: %w", err)
		logger.Error().Err(wrappedErr).Msg("Calendar initialization failed")
		return wrappedErr
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close calendar")
		}
	}()

	logger.Info().Int("today", a.Today()).Ints("revealed", a.Machine.Revealed()).Msg("Opening calendar window")
	if err := desktop.Run(ctx, a); err != nil {
		return fmt.Errorf("window closed with error: %w", err)
	}
	logger.Info().Msg("Window closed")
	return nil
}
