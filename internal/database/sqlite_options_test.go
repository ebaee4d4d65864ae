package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaultOptions(t *testing.T) {
	opts := NewDefaultOptions("test.db")

	assert.Equal(t, "test.db", opts.Path)
	assert.Equal(t, "rwc", opts.Mode)
	assert.Equal(t, JournalWAL, opts.Journal)
	assert.True(t, opts.ForeignKeys)
	assert.Equal(t, 5000, opts.BusyTimeout)
	assert.Equal(t, 2000, opts.CacheSize)
	assert.Equal(t, SynchronousNormal, opts.Synchronous)
	assert.Equal(t, CachePrivate, opts.Cache)
	assert.Equal(t, TxLockImmediate, opts.TxLock)
	assert.False(t, opts.Immutable)
}

func TestPragmas_Order(t *testing.T) {
	opts := NewDefaultOptions("test.db")

	var names []string
	for _, p := range opts.pragmas() {
		names = append(names, p.name)
	}

	assert.Equal(t, []string{"busy_timeout", "foreign_keys", "cache_size", "synchronous", "journal_mode"}, names)
}

func TestPragmas_SkipsUnset(t *testing.T) {
	opts := SQLiteOptions{Path: "test.db"}

	assert.Equal(t, []pragma{{"foreign_keys", "0"}}, opts.pragmas())
}
