package handlers

import (
	"bytes"
	"errors"
	"image"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/belphemur/advent-calendar/internal/constants"
	"github.com/belphemur/advent-calendar/internal/imaging"
	"github.com/belphemur/advent-calendar/internal/viewhelpers"
)

// CalendarHandler serves the calendar page and its images
type CalendarHandler struct {
	*BaseHandler
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(baseHandler *BaseHandler) *CalendarHandler {
	return &CalendarHandler{BaseHandler: baseHandler}
}

// RegisterRoutes registers calendar related routes
func (h *CalendarHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleHome)
	r.Get("/calendar.png", h.handleCalendarImage)
	r.Get("/peek.png", h.handlePeekImage)
	r.Get("/days/{day}/card.png", h.handleCard)
}

// CalendarPageData contains data for the calendar template
type CalendarPageData struct {
	BasePageData
	Today       int
	Width       int
	Height      int
	Tiles       []viewhelpers.DayTile
	Summary     viewhelpers.Summary
	PeekTitle   string
	PeekMessage string
}

func (h *CalendarHandler) handleHome(w http.ResponseWriter, r *http.Request) {
	handlerLogger := h.logger.With().Str("handler", "handleHome").Logger()

	today := h.App.Today()
	tiles := viewhelpers.BuildDayTiles(h.App.Regions.Regions(), h.App.Machine, today)
	size := h.App.Catalog.DisplaySize()

	data := CalendarPageData{
		BasePageData: h.NewBasePageData(r),
		Today:        today,
		Width:        size.X,
		Height:       size.Y,
		Tiles:        tiles,
		Summary:      viewhelpers.Summarize(tiles),
		PeekTitle:    constants.PeekTitle,
		PeekMessage:  constants.PeekMessage,
	}

	handlerLogger.Debug().Int("today", today).Int("tiles", len(tiles)).Msg("Rendering calendar template")
	h.RenderTemplate(w, "calendar.html", data)
}

// handleCalendarImage draws the base image with every revealed overlay
func (h *CalendarHandler) handleCalendarImage(w http.ResponseWriter, r *http.Request) {
	composed := h.App.Catalog.Compose(h.App.Machine.Revealed())
	h.writePNG(w, composed, "no-store")
}

func (h *CalendarHandler) handlePeekImage(w http.ResponseWriter, r *http.Request) {
	img, err := h.App.Catalog.PeekImage()
	if err != nil {
		h.writeImageError(w, err)
		return
	}
	h.writePNG(w, img, "public, max-age=3600")
}

// handleCard serves the event card of a revealed day only
func (h *CalendarHandler) handleCard(w http.ResponseWriter, r *http.Request) {
	handlerLogger := h.logger.With().Str("handler", "handleCard").Logger()

	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil || !constants.IsValidDay(day) {
		handlerLogger.Debug().Str("day", chi.URLParam(r, "day")).Msg("Malformed day")
		h.writeError(w, http.StatusBadRequest, ErrCodeInvalidDay)
		return
	}

	if !h.App.Machine.IsRevealed(day) {
		handlerLogger.Debug().Int("day", day).Msg("Card requested for a closed day")
		h.writeError(w, http.StatusForbidden, ErrCodeDayNotRevealed)
		return
	}

	card, err := h.App.Catalog.EventCard(day)
	if err != nil {
		h.writeImageError(w, err)
		return
	}
	h.writePNG(w, card, "private, max-age=3600")
}

func (h *CalendarHandler) writeImageError(w http.ResponseWriter, err error) {
	if errors.Is(err, fs.ErrNotExist) {
		h.logger.Warn().Err(err).Msg("Image asset missing")
		h.writeError(w, http.StatusNotFound, ErrCodeAssetMissing)
		return
	}
	h.logger.Error().Err(err).Msg("Failed to load image asset")
	h.writeError(w, http.StatusInternalServerError, ErrCodeRenderFailed)
}

// writePNG encodes before writing so a failure can still change the status
func (h *CalendarHandler) writePNG(w http.ResponseWriter, img image.Image, cacheControl string) {
	var buf bytes.Buffer
	if err := imaging.EncodePNG(&buf, img); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode PNG")
		h.writeError(w, http.StatusInternalServerError, ErrCodeRenderFailed)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error().Err(err).Msg("Failed to write image response")
	}
}
