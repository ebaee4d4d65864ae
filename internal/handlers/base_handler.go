package handlers

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/belphemur/advent-calendar/internal/app"
	"github.com/belphemur/advent-calendar/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

// BaseHandler contains common handler functionality
type BaseHandler struct {
	tmpl    *template.Template
	App     *app.App
	logger  zerolog.Logger
	cssETag string // Cache-busting version for the stylesheet
	jsETag  string // Cache-busting version for the script
}

// NewBaseHandler creates a common base handler with shared components
func NewBaseHandler(a *app.App, cssETag, jsETag string) (*BaseHandler, error) {
	logger := logging.GetLogger("base-handler")
	logger.Debug().Msg("Parsing templates")

	// Parse only layout.html initially
	tmpl, err := template.New("").ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse templates")
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &BaseHandler{
		tmpl:    tmpl,
		App:     a,
		logger:  logger,
		cssETag: cssETag,
		jsETag:  jsETag,
	}, nil
}

// RenderTemplate renders a template with the given data
func (h *BaseHandler) RenderTemplate(w http.ResponseWriter, name string, data interface{}) {
	h.logger.Debug().Str("template_name", name).Msg("Executing template")

	// Clone the base template (which contains layout.html)
	tmpl, err := h.tmpl.Clone()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to clone template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Parse the specific page template into the clone
	if _, err = tmpl.ParseFS(templateFS, "templates/"+name); err != nil {
		h.logger.Error().Err(err).Str("template", name).Msg("Failed to parse page template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		h.logger.Error().Err(err).Str("template", name).Msg("Failed to execute template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// BasePageData contains common data for all pages
type BasePageData struct {
	Title       string
	CurrentYear int
	CurrentPath string
	CSSVersion  string
	JSVersion   string
}

// NewBasePageData creates a new BasePageData with common fields populated
func (h *BaseHandler) NewBasePageData(r *http.Request) BasePageData {
	return BasePageData{
		Title:       h.App.Config.App.Title,
		CurrentYear: time.Now().In(h.App.Location).Year(),
		CurrentPath: r.URL.Path,
		CSSVersion:  h.cssETag,
		JSVersion:   h.jsETag,
	}
}

// ErrorResponse is the JSON body of a failed API call
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeJSON encodes v with the given status
func (h *BaseHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError sends an ErrorResponse for code
func (h *BaseHandler) writeError(w http.ResponseWriter, status int, code string) {
	h.writeJSON(w, status, ErrorResponse{Error: code, Message: GetErrorMessage(code)})
}
