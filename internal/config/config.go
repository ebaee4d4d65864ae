package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/belphemur/advent-calendar/internal/constants"
	"github.com/belphemur/advent-calendar/internal/logging"
)

// EnvPrefix is the prefix of environment overrides. A double underscore
// separates sections: ADVENT_APP__PORT sets app.port.
const EnvPrefix = "ADVENT_"

// State backends
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds the application configuration
type Config struct {
	App      AppConfig      `koanf:"app"`
	Calendar CalendarConfig `koanf:"calendar"`
	Assets   AssetsConfig   `koanf:"assets"`
	State    StateConfig    `koanf:"state"`
	Service  ServiceConfig  `koanf:"service"`
}

// AppConfig holds the front-end settings
type AppConfig struct {
	Port  int    `koanf:"port"`
	Title string `koanf:"title"`
}

// CalendarConfig holds the hit-region and unlock settings
type CalendarConfig struct {
	RegionsFile  string `koanf:"regions_file"`  // Canonical region JSON
	ScaleDivisor int    `koanf:"scale_divisor"` // Display size = image size / divisor
	Timezone     string `koanf:"timezone"`      // Zone used to compute today's day of month
}

// AssetsConfig holds the image locations and display sizes
type AssetsConfig struct {
	Dir             string `koanf:"dir"`
	CalendarImage   string `koanf:"calendar_image"`
	ChatheadPattern string `koanf:"chathead_pattern"` // fmt pattern taking the day number
	CardPattern     string `koanf:"card_pattern"`     // fmt pattern taking the day number
	PeekImage       string `koanf:"peek_image"`
	CardWidth       int    `koanf:"card_width"`
	CardHeight      int    `koanf:"card_height"`
	PeekSize        int    `koanf:"peek_size"`
}

// StateConfig selects where revealed days are kept
type StateConfig struct {
	Backend  string `koanf:"backend"`  // json or sqlite
	File     string `koanf:"file"`     // JSON state file
	Database string `koanf:"database"` // SQLite database file
}

// ServiceConfig holds the process settings
type ServiceConfig struct {
	LogLevel string `koanf:"log_level"`
}

// Defaults returns the built-in configuration. Every path is relative to the
// working directory, next to the artwork.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"app.port":                8888,
		"app.title":               constants.AppName,
		"calendar.regions_file":   "original_area.json",
		"calendar.scale_divisor":  3,
		"calendar.timezone":       "Local",
		"assets.dir":              ".",
		"assets.calendar_image":   "Christmas_Advent_Calendar.png",
		"assets.chathead_pattern": "chatheads/Chathead_%d.png",
		"assets.card_pattern":     "daily_images/Day %d Event Card.png",
		"assets.peek_image":       "image.png",
		"assets.card_width":       810,
		"assets.card_height":      540,
		"assets.peek_size":        124,
		"state.backend":           BackendJSON,
		"state.file":              "advent_calendar_state.json",
		"state.database":          "data/advent-calendar.db",
		"service.log_level":       "info",
	}
}

// Load builds the configuration from defaults, the TOML file at path (skipped
// when path is empty) and the environment, in that order of precedence.
func Load(path string) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	baseDir := ""
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		baseDir = filepath.Dir(path)
		logger.Debug().Str("path", path).Msg("Loaded config file")
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnvKey,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	// PORT is honoured for container platforms that inject it
	if port := os.Getenv("PORT"); port != "" {
		if err := k.Set("app.port", port); err != nil {
			return nil, fmt.Errorf("failed to apply PORT: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.TextUnmarshallerHookFunc(),
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	cfg.resolvePaths(baseDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// transformEnvKey maps ADVENT_STATE__BACKEND to state.backend
func transformEnvKey(key, value string) (string, any) {
	key = strings.TrimPrefix(key, EnvPrefix)
	key = strings.ToLower(strings.ReplaceAll(key, "__", "."))
	return key, value
}

// resolvePaths makes relative paths relative to the config file directory.
// Without a config file they stay relative to the working directory.
func (c *Config) resolvePaths(baseDir string) {
	if baseDir == "" {
		return
	}
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}
	c.Calendar.RegionsFile = resolve(c.Calendar.RegionsFile)
	c.Assets.Dir = resolve(c.Assets.Dir)
	c.State.File = resolve(c.State.File)
	c.State.Database = resolve(c.State.Database)
}

// Location returns the time zone used to compute the unlock day
func (c *CalendarConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.App.Port < 1 || c.App.Port > 65535 {
		result = multierror.Append(result, fmt.Errorf("app.port must be between 1 and 65535, got %d", c.App.Port))
	}

	if c.Calendar.RegionsFile == "" {
		result = multierror.Append(result, errors.New("calendar.regions_file is required"))
	}
	if c.Calendar.ScaleDivisor < 1 {
		result = multierror.Append(result, fmt.Errorf("calendar.scale_divisor must be at least 1, got %d", c.Calendar.ScaleDivisor))
	}
	if _, err := c.Calendar.Location(); err != nil {
		result = multierror.Append(result, fmt.Errorf("calendar.timezone: %w", err))
	}

	if c.Assets.CalendarImage == "" {
		result = multierror.Append(result, errors.New("assets.calendar_image is required"))
	}
	for name, pattern := range map[string]string{
		"assets.chathead_pattern": c.Assets.ChatheadPattern,
		"assets.card_pattern":     c.Assets.CardPattern,
	} {
		if strings.Count(pattern, "%d") != 1 {
			result = multierror.Append(result, fmt.Errorf("%s must contain exactly one %%d, got %q", name, pattern))
		}
	}
	if c.Assets.CardWidth < 1 || c.Assets.CardHeight < 1 {
		result = multierror.Append(result, fmt.Errorf("assets card size must be positive, got %dx%d", c.Assets.CardWidth, c.Assets.CardHeight))
	}
	if c.Assets.PeekSize < 1 {
		result = multierror.Append(result, fmt.Errorf("assets.peek_size must be positive, got %d", c.Assets.PeekSize))
	}

	switch c.State.Backend {
	case BackendJSON:
		if c.State.File == "" {
			result = multierror.Append(result, errors.New("state.file is required for the json backend"))
		}
	case BackendSQLite:
		if c.State.Database == "" {
			result = multierror.Append(result, errors.New("state.database is required for the sqlite backend"))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("invalid state backend: %s", c.State.Backend))
	}

	if _, err := logging.ParseLevel(c.Service.LogLevel); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}
