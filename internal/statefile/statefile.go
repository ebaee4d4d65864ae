// Package statefile stores the revealed days as a JSON array of integers.
package statefile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"

	"github.com/belphemur/advent-calendar/internal/logging"
	"github.com/belphemur/advent-calendar/internal/reveal"
)

// FilePermissions is applied to newly written state files
const FilePermissions = 0o644

// Store is a reveal.Store backed by a single JSON file
type Store struct {
	path   string
	logger zerolog.Logger
}

// New creates a Store for the file at path. The file is not touched until
// the first Load or Save.
func New(path string) *Store {
	return &Store{
		path:   path,
		logger: logging.GetLogger("statefile").With().Str("path", path).Logger(),
	}
}

// Path returns the state file location
func (s *Store) Path() string {
	return s.path
}

// Load implements reveal.Store. A missing file yields an error wrapping
// fs.ErrNotExist.
func (s *Store) Load() ([]int, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var days []int
	if err := json.Unmarshal(data, &days); err != nil {
		return nil, fmt.Errorf("failed to decode state file: %w", err)
	}
	s.logger.Debug().Int("count", len(days)).Msg("State file read")
	return days, nil
}

// Save implements reveal.Store. The content goes to a temporary file in the
// same directory which is then renamed over the target.
func (s *Store) Save(days []int) error {
	sorted := append(make([]int, 0, len(days)), days...)
	sort.Ints(sorted)

	data, err := json.Marshal(sorted)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	if err := renameio.WriteFile(s.path, data, FilePermissions); err != nil {
		s.logger.Error().Err(err).Msg("Failed to write state file")
		return fmt.Errorf("failed to write state file: %w", err)
	}
	s.logger.Debug().Ints("days", sorted).Msg("State file written")
	return nil
}

// Ensure Store implements the reveal.Store interface
var _ reveal.Store = (*Store)(nil)
