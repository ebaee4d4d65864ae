package signals

import (
	"context"

	"github.com/maniartech/signals"

	"github.com/belphemur/advent-calendar/internal/reveal"
)

// DayRevealedData is emitted once for every newly opened day
type DayRevealedData struct {
	Day int
}

// PeekRejectedData is emitted for every click on a day that is not open yet
type PeekRejectedData struct {
	Day   int
	Today int
}

// Bus fans reveal events out to the front ends. Emit returns once every
// listener has run.
type Bus struct {
	dayRevealed  signals.Signal[DayRevealedData]
	peekRejected signals.Signal[PeekRejectedData]
}

var _ reveal.Notifier = (*Bus)(nil)

// NewBus creates a bus without listeners
func NewBus() *Bus {
	return &Bus{
		dayRevealed:  signals.New[DayRevealedData](),
		peekRejected: signals.New[PeekRejectedData](),
	}
}

// DayRevealed emits a DayRevealedData event
func (b *Bus) DayRevealed(ctx context.Context, day int) {
	b.dayRevealed.Emit(ctx, DayRevealedData{Day: day})
}

// PeekRejected emits a PeekRejectedData event
func (b *Bus) PeekRejected(ctx context.Context, day, today int) {
	b.peekRejected.Emit(ctx, PeekRejectedData{Day: day, Today: today})
}

// OnDayRevealed registers a handler for newly opened days
func (b *Bus) OnDayRevealed(handler func(ctx context.Context, data DayRevealedData), key ...string) {
	if len(key) > 0 {
		b.dayRevealed.AddListener(handler, key[0])
	} else {
		b.dayRevealed.AddListener(handler)
	}
}

// OnPeekRejected registers a handler for early clicks
func (b *Bus) OnPeekRejected(handler func(ctx context.Context, data PeekRejectedData), key ...string) {
	if len(key) > 0 {
		b.peekRejected.AddListener(handler, key[0])
	} else {
		b.peekRejected.AddListener(handler)
	}
}

// RemoveListener drops the keyed listener from both signals
func (b *Bus) RemoveListener(key string) {
	b.dayRevealed.RemoveListener(key)
	b.peekRejected.RemoveListener(key)
}

// Len returns the number of registered listeners across both signals
func (b *Bus) Len() int {
	return b.dayRevealed.Len() + b.peekRejected.Len()
}
