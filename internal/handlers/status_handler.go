package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/atomic"

	"github.com/belphemur/advent-calendar/internal/reveal"
	"github.com/belphemur/advent-calendar/internal/signals"
)

// statusListenerKey identifies the counters' bus listeners
const statusListenerKey = "web-status"

// OutcomeCounters tracks click outcomes since the process started. Reveals
// and rejections come from the event bus; the rest from the click handler.
type OutcomeCounters struct {
	clicks          atomic.Int64
	revealed        atomic.Int64
	rejected        atomic.Int64
	noop            atomic.Int64
	persistFailures atomic.Int64
}

// CounterSnapshot is a point-in-time copy of OutcomeCounters
type CounterSnapshot struct {
	Clicks          int64 `json:"clicks"`
	Revealed        int64 `json:"revealed"`
	Rejected        int64 `json:"rejected"`
	NoOp            int64 `json:"noop"`
	PersistFailures int64 `json:"persistFailures"`
}

// NewOutcomeCounters creates zeroed counters
func NewOutcomeCounters() *OutcomeCounters {
	return &OutcomeCounters{}
}

// Subscribe registers the counters on the bus
func (c *OutcomeCounters) Subscribe(bus *signals.Bus) {
	bus.OnDayRevealed(func(context.Context, signals.DayRevealedData) {
		c.revealed.Inc()
	}, statusListenerKey)
	bus.OnPeekRejected(func(context.Context, signals.PeekRejectedData) {
		c.rejected.Inc()
	}, statusListenerKey)
}

// Unsubscribe removes the counters from the bus
func (c *OutcomeCounters) Unsubscribe(bus *signals.Bus) {
	bus.RemoveListener(statusListenerKey)
}

func (c *OutcomeCounters) recordClick(outcome reveal.Outcome, err error) {
	c.clicks.Inc()
	if outcome.Kind == reveal.KindNoOp {
		c.noop.Inc()
	}
	if err != nil {
		c.persistFailures.Inc()
	}
}

// Snapshot reads every counter
func (c *OutcomeCounters) Snapshot() CounterSnapshot {
	return CounterSnapshot{
		Clicks:          c.clicks.Load(),
		Revealed:        c.revealed.Load(),
		Rejected:        c.rejected.Load(),
		NoOp:            c.noop.Load(),
		PersistFailures: c.persistFailures.Load(),
	}
}

// StatusHandler reports the calendar state as JSON
type StatusHandler struct {
	*BaseHandler
	counters *OutcomeCounters
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(baseHandler *BaseHandler, counters *OutcomeCounters) *StatusHandler {
	return &StatusHandler{
		BaseHandler: baseHandler,
		counters:    counters,
	}
}

// RegisterRoutes registers status routes
func (h *StatusHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/status", h.handleStatus)
	r.Get("/healthz", h.handleHealth)
}

// DayStatus is the state of one day
type DayStatus struct {
	Day   int    `json:"day"`
	State string `json:"state"`
}

// StatusResponse is the body of /api/status
type StatusResponse struct {
	Today    int             `json:"today"`
	Revealed []int           `json:"revealed"`
	Days     []DayStatus     `json:"days"`
	Counters CounterSnapshot `json:"counters"`
}

func (h *StatusHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	today := h.App.Today()

	revealed := h.App.Machine.Revealed()
	if revealed == nil {
		revealed = []int{}
	}

	days := h.App.Regions.Days()
	statuses := make([]DayStatus, 0, len(days))
	for _, day := range days {
		statuses = append(statuses, DayStatus{
			Day:   day,
			State: h.App.Machine.State(day, today).String(),
		})
	}

	h.writeJSON(w, http.StatusOK, StatusResponse{
		Today:    today,
		Revealed: revealed,
		Days:     statuses,
		Counters: h.counters.Snapshot(),
	})
}

func (h *StatusHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte("ok")); err != nil {
		h.logger.Error().Err(err).Msg("Failed to write health response")
	}
}
