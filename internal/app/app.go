// Package app wires the configuration, artwork, region index and reveal state
// machine shared by the web and desktop front ends.
package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/belphemur/advent-calendar/internal/config"
	"github.com/belphemur/advent-calendar/internal/database"
	"github.com/belphemur/advent-calendar/internal/imaging"
	"github.com/belphemur/advent-calendar/internal/logging"
	"github.com/belphemur/advent-calendar/internal/regions"
	"github.com/belphemur/advent-calendar/internal/reveal"
	"github.com/belphemur/advent-calendar/internal/signals"
	"github.com/belphemur/advent-calendar/internal/statefile"
)

// DefaultConfigPath is used when CONFIG_FILE is not set
const DefaultConfigPath = "configs/advent.toml"

// App holds the long-lived components of a running calendar
type App struct {
	Config   *config.Config
	Catalog  *imaging.Catalog
	Regions  *regions.Table
	Machine  *reveal.Machine
	Bus      *signals.Bus
	Store    reveal.Store
	Location *time.Location
	Clock    reveal.Clock

	closers []func() error
	logger  zerolog.Logger
}

// ConfigPath returns the config file to load. An explicit CONFIG_FILE must
// exist; the default path is optional and skipped when absent.
func ConfigPath() string {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return path
	}
	if _, err := os.Stat(DefaultConfigPath); errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	return DefaultConfigPath
}

// New builds every component from cfg. Any error here is fatal to startup.
func New(cfg *config.Config) (*App, error) {
	logger := logging.GetLogger("app")

	location, err := cfg.Calendar.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid time zone: %w", err)
	}

	catalog, err := imaging.LoadCatalog(cfg.Assets, cfg.Calendar.ScaleDivisor)
	if err != nil {
		return nil, err
	}

	canonical, err := regions.LoadCanonical(cfg.Calendar.RegionsFile)
	if err != nil {
		return nil, err
	}
	table, err := regions.Build(canonical, catalog.Scale())
	if err != nil {
		return nil, err
	}
	for _, overlap := range table.Overlaps() {
		logger.Warn().
			Int("day", overlap.First).
			Int("other_day", overlap.Second).
			Msg("Day regions overlap, the lower day wins")
	}
	logger.Info().
		Int("regions", table.Len()).
		Float64("scale_x", catalog.Scale().X).
		Float64("scale_y", catalog.Scale().Y).
		Msg("Region index built")

	a := &App{
		Config:   cfg,
		Catalog:  catalog,
		Regions:  table,
		Bus:      signals.NewBus(),
		Location: location,
		Clock:    time.Now,
		logger:   logger,
	}

	store, err := a.openStore()
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Store = store
	a.Machine = reveal.New(table, store, reveal.WithNotifier(a.Bus))

	logger.Info().
		Str("backend", cfg.State.Backend).
		Ints("revealed", a.Machine.Revealed()).
		Int("today", a.Today()).
		Msg("Calendar ready")

	return a, nil
}

func (a *App) openStore() (reveal.Store, error) {
	switch a.Config.State.Backend {
	case config.BackendSQLite:
		path := a.Config.State.Database
		db, err := openDatabase(path)
		if err != nil {
			if _, statErr := os.Stat(path); statErr != nil {
				return nil, err
			}
			readErr := &reveal.PersistenceReadError{Err: err}
			a.logger.Warn().Err(readErr).Str("db_path", path).Msg("Saved state is unreadable, starting with an empty calendar")
			if err := setAsideDatabase(path, a.Clock); err != nil {
				return nil, err
			}
			if db, err = openDatabase(path); err != nil {
				return nil, err
			}
		}
		a.closers = append(a.closers, db.Close)
		return database.NewRevealStore(db), nil
	case config.BackendJSON:
		return statefile.New(a.Config.State.File), nil
	default:
		return nil, fmt.Errorf("invalid state backend: %s", a.Config.State.Backend)
	}
}

// openDatabase opens and migrates the SQLite state database
func openDatabase(path string) (*database.DB, error) {
	db, err := database.New(database.NewDefaultOptions(path))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.MigrateDatabase(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}
	return db, nil
}

// setAsideDatabase renames an unreadable database and its WAL files to
// <path>.corrupt-<timestamp> so a fresh one can take its place.
func setAsideDatabase(path string, clock reveal.Clock) error {
	now := time.Now
	if clock != nil {
		now = clock
	}
	suffix := ".corrupt-" + now().UTC().Format("20060102T150405")
	for _, ext := range []string{"", "-wal", "-shm"} {
		if err := os.Rename(path+ext, path+ext+suffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to set aside unreadable database %s: %w", path+ext, err)
		}
	}
	return nil
}

// Today is the current day of month in the configured time zone
func (a *App) Today() int {
	return a.Clock.Today(a.Location)
}

// Close releases the state backend
func (a *App) Close() error {
	var result *multierror.Error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			result = multierror.Append(result, err)
		}
	}
	a.closers = nil
	return result.ErrorOrNil()
}
