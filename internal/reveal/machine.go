// Package reveal decides what a click on the calendar does and keeps the set
// of opened days in sync with its persisted copy.
package reveal

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/belphemur/advent-calendar/internal/logging"
)

// Locator resolves display coordinates to a day number
type Locator interface {
	Lookup(x, y int) (day int, ok bool)
}

// Notifier receives the presentation side effects of a click
type Notifier interface {
	// DayRevealed is called once per newly opened day
	DayRevealed(ctx context.Context, day int)

	// PeekRejected is called for every click on a locked day
	PeekRejected(ctx context.Context, day, today int)
}

type nopNotifier struct{}

func (nopNotifier) DayRevealed(context.Context, int)       {}
func (nopNotifier) PeekRejected(context.Context, int, int) {}

// Machine owns the revealed set. HandleClick calls are serialized, including
// the persistence write, so a click is fully resolved before the next one.
type Machine struct {
	mu       sync.Mutex
	locator  Locator
	store    Store
	notifier Notifier
	revealed *RevealedSet
	logger   zerolog.Logger
}

// Option customizes a Machine
type Option func(*Machine)

// WithNotifier sets the receiver of presentation events
func WithNotifier(n Notifier) Option {
	return func(m *Machine) {
		if n != nil {
			m.notifier = n
		}
	}
}

// New creates a Machine and loads the revealed set from the store
func New(locator Locator, store Store, opts ...Option) *Machine {
	m := &Machine{
		locator:  locator,
		store:    store,
		notifier: nopNotifier{},
		logger:   logging.GetLogger("reveal"),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.revealed = Load(store, m.logger)
	m.logger.Info().Int("revealed_count", m.revealed.Len()).Msg("Reveal state loaded")
	return m
}

// HandleClick applies the unlock policy to a click at (x, y) on the given
// day of the month. A non-nil error is always a *PersistenceWriteError and
// comes with a Revealed outcome: the day stays revealed in memory even
// though it may not survive a restart.
func (m *Machine) HandleClick(ctx context.Context, x, y, today int) (Outcome, error) {
	outcome, err := m.decide(x, y, today)

	switch outcome.Kind {
	case KindRevealed:
		m.notifier.DayRevealed(ctx, outcome.Day)
	case KindRejected:
		m.notifier.PeekRejected(ctx, outcome.Day, today)
	}
	return outcome, err
}

// decide runs under the lock; notifications are sent after it is released so
// listeners may read the machine.
func (m *Machine) decide(x, y, today int) (Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	clickLogger := m.logger.With().Int("x", x).Int("y", y).Int("today", today).Logger()

	day, ok := m.locator.Lookup(x, y)
	if !ok {
		clickLogger.Debug().Msg("Click hit no region")
		return NoTarget(), nil
	}
	clickLogger = clickLogger.With().Int("day", day).Logger()

	if day > today {
		clickLogger.Info().Msg("Rejected click on a future day")
		return Rejected(day), nil
	}

	if m.revealed.Contains(day) {
		clickLogger.Debug().Msg("Day already revealed")
		return AlreadyRevealed(day), nil
	}

	m.revealed.Add(day)
	if err := Persist(m.store, m.revealed); err != nil {
		clickLogger.Error().Err(err).Msg("Day revealed but could not be saved")
		return Revealed(day), err
	}

	clickLogger.Info().Int("revealed_count", m.revealed.Len()).Msg("Day revealed")
	return Revealed(day), nil
}

// Revealed returns the opened days in ascending order
func (m *Machine) Revealed() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revealed.Days()
}

// IsRevealed reports whether day has been opened
func (m *Machine) IsRevealed(day int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revealed.Contains(day)
}

// State returns the state of day as seen on the given day of the month
func (m *Machine) State(day, today int) DayState {
	if m.IsRevealed(day) {
		return DayRevealed
	}
	if day > today {
		return DayLocked
	}
	return DayHidden
}
