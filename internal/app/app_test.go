package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belphemur/advent-calendar/internal/config"
	"github.com/belphemur/advent-calendar/internal/geometry"
	"github.com/belphemur/advent-calendar/internal/regions"
	"github.com/belphemur/advent-calendar/internal/reveal"
)

func TestNew_WiresComponents(t *testing.T) {
	a := NewTestApp(t, config.BackendJSON)

	assert.Equal(t, 3, a.Regions.Len())
	assert.Equal(t, []int{1, 5, 24}, a.Regions.Days())

	rect, ok := a.Regions.Rect(5)
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{MinX: 50, MinY: 0, MaxX: 80, MaxY: 30}, rect)
	assert.Equal(t, TestToday, a.Today())
	assert.Empty(t, a.Machine.Revealed())
}

func TestNew_BackendsPersistAcrossRestarts(t *testing.T) {
	for _, backend := range []string{config.BackendJSON, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfg := WriteTestAssets(t, backend)

			first, err := New(cfg)
			require.NoError(t, err)
			outcome, err := first.Machine.HandleClick(context.Background(), 60, 10, TestToday)
			require.NoError(t, err)
			assert.Equal(t, reveal.Revealed(5), outcome)
			require.NoError(t, first.Close())

			second, err := New(cfg)
			require.NoError(t, err)
			defer second.Close()
			assert.Equal(t, []int{5}, second.Machine.Revealed())
		})
	}
}

func TestNew_SQLiteCreatesDatabase(t *testing.T) {
	a := NewTestApp(t, config.BackendSQLite)
	assert.FileExists(t, a.Config.State.Database)
}

func TestNew_CorruptStateStartsEmpty(t *testing.T) {
	cfg := WriteTestAssets(t, config.BackendJSON)
	require.NoError(t, os.WriteFile(cfg.State.File, []byte("{not json"), 0o644))

	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()
	assert.Empty(t, a.Machine.Revealed())
}

func TestNew_CorruptDatabaseStartsEmpty(t *testing.T) {
	cfg := WriteTestAssets(t, config.BackendSQLite)
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.State.Database), 0o755))
	garbage := []byte("this is not an sqlite database, just some garbage bytes to fill the header page")
	require.NoError(t, os.WriteFile(cfg.State.Database, garbage, 0o644))

	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()
	assert.Empty(t, a.Machine.Revealed())

	// The unreadable file is kept aside and a fresh database is usable
	matches, err := filepath.Glob(cfg.State.Database + ".corrupt-*")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	kept, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Equal(t, garbage, kept)

	a.Clock = TestClock
	outcome, err := a.Machine.HandleClick(context.Background(), 10, 10, a.Today())
	require.NoError(t, err)
	assert.Equal(t, reveal.KindRevealed, outcome.Kind)
}

func TestNew_StartupErrors(t *testing.T) {
	t.Run("missing region file", func(t *testing.T) {
		cfg := WriteTestAssets(t, config.BackendJSON)
		cfg.Calendar.RegionsFile = filepath.Join(t.TempDir(), "missing.json")

		_, err := New(cfg)
		var cfgErr *regions.ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, cfg.Calendar.RegionsFile, cfgErr.Source)
	})

	t.Run("malformed region file", func(t *testing.T) {
		cfg := WriteTestAssets(t, config.BackendJSON)
		require.NoError(t, os.WriteFile(cfg.Calendar.RegionsFile, []byte(`{"1": [1, 2, 3]}`), 0o644))

		_, err := New(cfg)
		var cfgErr *regions.ConfigError
		assert.True(t, errors.As(err, &cfgErr))
	})

	t.Run("missing calendar image", func(t *testing.T) {
		cfg := WriteTestAssets(t, config.BackendJSON)
		cfg.Assets.CalendarImage = "missing.png"

		_, err := New(cfg)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := WriteTestAssets(t, config.BackendJSON)
		cfg.State.Backend = "redis"

		_, err := New(cfg)
		assert.ErrorContains(t, err, "invalid state backend")
	})
}

func TestConfigPath(t *testing.T) {
	t.Run("explicit", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "/etc/advent.toml")
		assert.Equal(t, "/etc/advent.toml", ConfigPath())
	})

	t.Run("default missing", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		t.Chdir(t.TempDir())
		assert.Equal(t, "", ConfigPath())
	})

	t.Run("default present", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "configs"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigPath), nil, 0o644))
		t.Chdir(dir)
		assert.Equal(t, DefaultConfigPath, ConfigPath())
	})
}
