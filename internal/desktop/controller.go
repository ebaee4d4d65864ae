package desktop

import (
	"context"
	"fmt"
	"image"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/belphemur/advent-calendar/internal/app"
	"github.com/belphemur/advent-calendar/internal/constants"
	"github.com/belphemur/advent-calendar/internal/logging"
	"github.com/belphemur/advent-calendar/internal/reveal"
	"github.com/belphemur/advent-calendar/internal/signals"
)

const (
	// listenerKey identifies the desktop listeners on the bus
	listenerKey = "desktop"
	// popupQueueSize bounds popups waiting to be shown
	popupQueueSize = 8
)

// Popup is a message window shown above the calendar
type Popup struct {
	Title   string
	Message string
	Image   image.Image // nil when the asset could not be loaded
}

// Controller holds the window-independent part of the desktop front-end.
// Bus listeners queue popups; Update drains them on the game loop.
type Controller struct {
	app    *app.App
	logger zerolog.Logger

	popups chan Popup
	active *Popup
	dirty  atomic.Bool
}

// NewController subscribes a controller to the app's bus
func NewController(a *app.App) *Controller {
	c := &Controller{
		app:    a,
		logger: logging.GetLogger("desktop"),
		popups: make(chan Popup, popupQueueSize),
	}
	c.dirty.Store(true)

	a.Bus.OnDayRevealed(c.onDayRevealed, listenerKey)
	a.Bus.OnPeekRejected(c.onPeekRejected, listenerKey)
	return c
}

// Close removes the controller's bus listeners
func (c *Controller) Close() {
	c.app.Bus.RemoveListener(listenerKey)
}

func (c *Controller) onDayRevealed(_ context.Context, data signals.DayRevealedData) {
	c.dirty.Store(true)

	popup := Popup{
		Title:   fmt.Sprintf("Day %d", data.Day),
		Message: fmt.Sprintf("You opened day %d!", data.Day),
	}
	card, err := c.app.Catalog.EventCard(data.Day)
	if err != nil {
		c.logger.Warn().Err(err).Int("day", data.Day).Msg("Event card unavailable")
	} else {
		popup.Image = card
	}
	c.enqueue(popup)
}

func (c *Controller) onPeekRejected(_ context.Context, data signals.PeekRejectedData) {
	popup := Popup{
		Title:   constants.PeekTitle,
		Message: constants.PeekMessage,
	}
	peek, err := c.app.Catalog.PeekImage()
	if err != nil {
		c.logger.Warn().Err(err).Int("day", data.Day).Msg("Peek image unavailable")
	} else {
		popup.Image = peek
	}
	c.enqueue(popup)
}

func (c *Controller) enqueue(popup Popup) {
	select {
	case c.popups <- popup:
	default:
		c.logger.Warn().Str("title", popup.Title).Msg("Popup queue full, dropping popup")
	}
}

// Press handles a left button press. A press while a popup is open only
// closes the popup and reports false.
func (c *Controller) Press(ctx context.Context, x, y int) bool {
	if c.Active() != nil {
		c.Dismiss()
		return false
	}
	_, _ = c.Click(ctx, x, y)
	return true
}

// Click forwards a click at display coordinates to the reveal machine
func (c *Controller) Click(ctx context.Context, x, y int) (reveal.Outcome, error) {
	today := c.app.Today()
	outcome, err := c.app.Machine.HandleClick(ctx, x, y, today)
	if err != nil {
		c.logger.Error().Err(err).Int("day", outcome.Day).Msg("Reveal not saved")
	}
	c.logger.Debug().
		Int("x", x).
		Int("y", y).
		Int("today", today).
		Str("outcome", outcome.Kind.String()).
		Int("day", outcome.Day).
		Msg("Click handled")
	return outcome, err
}

// Active returns the popup on screen, pulling the next queued one if none is
func (c *Controller) Active() *Popup {
	if c.active != nil {
		return c.active
	}
	select {
	case popup := <-c.popups:
		c.active = &popup
	default:
	}
	return c.active
}

// Dismiss closes the popup on screen
func (c *Controller) Dismiss() {
	c.active = nil
}

// TakeDirty reports whether the calendar must be recomposed and clears the flag
func (c *Controller) TakeDirty() bool {
	return c.dirty.CompareAndSwap(true, false)
}

// Compose draws the calendar with every revealed overlay
func (c *Controller) Compose() *image.RGBA {
	return c.app.Catalog.Compose(c.app.Machine.Revealed())
}
