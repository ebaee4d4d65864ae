package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/belphemur/advent-calendar/internal/reveal"
	"github.com/belphemur/advent-calendar/internal/viewhelpers"
)

// maxClickBody bounds the size of a click request body
const maxClickBody = 1 << 10

// ClickHandler turns pointer clicks into reveal outcomes
type ClickHandler struct {
	*BaseHandler
	counters *OutcomeCounters
}

// NewClickHandler creates a new click handler
func NewClickHandler(baseHandler *BaseHandler, counters *OutcomeCounters) *ClickHandler {
	return &ClickHandler{
		BaseHandler: baseHandler,
		counters:    counters,
	}
}

// RegisterRoutes registers click related routes
func (h *ClickHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/click", h.handleClick)
}

// ClickRequest is the JSON form of a click in display coordinates
type ClickRequest struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

// ClickResponse describes what a click did
type ClickResponse struct {
	Outcome   string `json:"outcome"`
	Day       int    `json:"day,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Title     string `json:"title,omitempty"`
	Message   string `json:"message,omitempty"`
	CardURL   string `json:"cardUrl,omitempty"`
	Persisted bool   `json:"persisted"`
	Warning   string `json:"warning,omitempty"`
}

func (h *ClickHandler) handleClick(w http.ResponseWriter, r *http.Request) {
	handlerLogger := h.logger.With().Str("handler", "handleClick").Logger()

	x, y, err := parseClick(w, r)
	if err != nil {
		handlerLogger.Debug().Err(err).Msg("Rejecting malformed click")
		h.writeError(w, http.StatusBadRequest, ErrCodeInvalidCoordinates)
		return
	}

	today := h.App.Today()
	outcome, err := h.App.Machine.HandleClick(r.Context(), x, y, today)
	h.counters.recordClick(outcome, err)

	var writeErr *reveal.PersistenceWriteError
	if err != nil && !errors.As(err, &writeErr) {
		handlerLogger.Error().Err(err).Msg("Click handling failed")
		h.writeError(w, http.StatusInternalServerError, ErrCodeUnknown)
		return
	}

	response := ClickResponse{
		Outcome:   outcome.Kind.String(),
		Day:       outcome.Day,
		Reason:    outcome.Reason.String(),
		Title:     OutcomeTitle(outcome),
		Message:   OutcomeMessage(outcome),
		Persisted: err == nil,
	}
	if outcome.Kind == reveal.KindRevealed {
		response.CardURL = viewhelpers.CardURL(outcome.Day)
	}
	if writeErr != nil {
		handlerLogger.Warn().Err(writeErr).Int("day", outcome.Day).Msg("Day revealed but not saved")
		response.Warning = GetErrorMessage(ErrCodePersistFailed)
	}

	handlerLogger.Info().
		Int("x", x).
		Int("y", y).
		Int("today", today).
		Str("outcome", response.Outcome).
		Int("day", outcome.Day).
		Str("reason", response.Reason).
		Msg("Click handled")

	h.writeJSON(w, http.StatusOK, response)
}

var errMissingCoordinate = errors.New("x and y are required")

// parseClick accepts a JSON body or form values
func parseClick(w http.ResponseWriter, r *http.Request) (int, int, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req ClickRequest
		decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxClickBody))
		if err := decoder.Decode(&req); err != nil {
			return 0, 0, err
		}
		if req.X == nil || req.Y == nil {
			return 0, 0, errMissingCoordinate
		}
		return *req.X, *req.Y, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxClickBody)
	if err := r.ParseForm(); err != nil {
		return 0, 0, err
	}
	rawX, rawY := r.PostForm.Get("x"), r.PostForm.Get("y")
	if rawX == "" || rawY == "" {
		return 0, 0, errMissingCoordinate
	}
	x, err := strconv.Atoi(rawX)
	if err != nil {
		return 0, 0, err
	}
	y, err := strconv.Atoi(rawY)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}
