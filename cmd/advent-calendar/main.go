package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/belphemur/advent-calendar/internal/app"
	"github.com/belphemur/advent-calendar/internal/config"
	"github.com/belphemur/advent-calendar/internal/handlers"
	"github.com/belphemur/advent-calendar/internal/logging"
	appSignals "github.com/belphemur/advent-calendar/internal/signals"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// dayCheckInterval is how often the main loop looks for a new unlock day
const dayCheckInterval = time.Minute

func main() {
	// Determine if we're in development mode
	isDev := os.Getenv("ENV") != "production"

	logging.Initialize(isDev)
	logger := logging.GetLogger("main")

	logger.Info().
		Str("version", version).
		Str("commit", commit).
		Str("build_date", date).
		Msg("Starting Advent Calendar web server")

	// Create context that's canceled on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("Received signal, initiating shutdown")
		cancel()
	}()

	if err := run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Application run failed")
	}
}

func run(ctx context.Context) error {
	logger := logging.GetLogger("main")

	configPath := app.ConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		// Log error before returning, as main's fatal log won't have config context
		logger.Error().Err(err).Str("config_path", configPath).Msg("Failed to load configuration")
		return err
	}

	logging.SetLogLevel(cfg.Service.LogLevel)
	logger.Info().Str("log_level", cfg.Service.LogLevel).Str("config_path", configPath).Msg("Configuration loaded")

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

	router, _, err := handlers.NewRouter(a)
	if err != nil {
		wrappedErr := fmt.Errorf("failed to initialize handlers: %w", err)
		logger.Error().Err(wrappedErr).Msg("Handler initialization failed")
		return wrappedErr
	}

	a.Bus.OnDayRevealed(func(ctx context.Context, data appSignals.DayRevealedData) {
		logging.GetLogger("signal-day-revealed").Info().Int("day", data.Day).Msg("Day opened from the web")
	}, "main-day-revealed-handler")

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Int("port", cfg.App.Port).Msg("Starting web server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	ticker := time.NewTicker(dayCheckInterval)
	defer ticker.Stop()

	today := a.Today()
	logger.Info().Int("today", today).Ints("revealed", a.Machine.Revealed()).Msg("Calendar ready")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Shutting down HTTP server...")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("HTTP server shutdown error")
			} else {
				logger.Info().Msg("HTTP server shut down gracefully")
			}
			logger.Info().Msg("Shutdown complete")
			return nil

		case err := <-serverErr:
			return fmt.Errorf("http server: %w", err)

		case <-ticker.C:
			if current := a.Today(); current != today {
				logger.Info().Int("previous", today).Int("today", current).Msg("Unlock day changed")
				today = current
			}
		}
	}
}
