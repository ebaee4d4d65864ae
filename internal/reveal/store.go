package reveal

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/rs/zerolog"

	"github.com/belphemur/advent-calendar/internal/constants"
)

// Store persists the revealed day numbers
type Store interface {
	// Load returns the saved days. A never-written store returns an error
	// wrapping fs.ErrNotExist.
	Load() ([]int, error)

	// Save replaces the saved days with the given ones. Readers must never
	// observe a partially written result.
	Save(days []int) error
}

// PersistenceReadError reports saved state that could not be read back
type PersistenceReadError struct {
	Err error
}

func (e *PersistenceReadError) Error() string {
	return fmt.Sprintf("failed to read revealed days: %v", e.Err)
}

func (e *PersistenceReadError) Unwrap() error {
	return e.Err
}

// PersistenceWriteError reports a reveal that could not be saved
type PersistenceWriteError struct {
	Err error
}

func (e *PersistenceWriteError) Error() string {
	return fmt.Sprintf("failed to save revealed days: %v", e.Err)
}

func (e *PersistenceWriteError) Unwrap() error {
	return e.Err
}

// Load reads the revealed set from the store. It never fails: missing or
// unreadable state yields an empty set so the calendar starts over instead
// of refusing to start.
func Load(store Store, logger zerolog.Logger) *RevealedSet {
	days, err := store.Load()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug().Msg("No saved state found, starting with an empty calendar")
		} else {
			readErr := &PersistenceReadError{Err: err}
			logger.Warn().Err(readErr).Msg("Saved state is unreadable, starting with an empty calendar")
		}
		return NewRevealedSet()
	}

	set := NewRevealedSet()
	for _, d := range days {
		if !constants.IsValidDay(d) {
			logger.Warn().Int("day", d).Msg("Dropping out-of-range day from saved state")
			continue
		}
		set.Add(d)
	}
	logger.Debug().Ints("days", set.Days()).Msg("Loaded revealed days")
	return set
}

// Persist writes the full set to the store
func Persist(store Store, set *RevealedSet) error {
	if err := store.Save(set.Days()); err != nil {
		return &PersistenceWriteError{Err: err}
	}
	return nil
}
