package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/belphemur/advent-calendar/internal/app"
	"github.com/belphemur/advent-calendar/internal/logging"
)

// requestTimeout bounds every request, including the PNG composition
const requestTimeout = 30 * time.Second

// NewRouter builds the web front end of the given app and returns the
// outcome counters it feeds
func NewRouter(a *app.App) (http.Handler, *OutcomeCounters, error) {
	staticHandler, err := NewStaticHandler()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize static handler: %w", err)
	}

	baseHandler, err := NewBaseHandler(a, staticHandler.GetCSSETag(), staticHandler.GetJSETag())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize base handler: %w", err)
	}

	counters := NewOutcomeCounters()
	counters.Subscribe(a.Bus)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logging.GetLogger("http")))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	staticHandler.RegisterRoutes(r)
	NewCalendarHandler(baseHandler).RegisterRoutes(r)
	NewClickHandler(baseHandler, counters).RegisterRoutes(r)
	NewStatusHandler(baseHandler, counters).RegisterRoutes(r)

	return r, counters, nil
}
