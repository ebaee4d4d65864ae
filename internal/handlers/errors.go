package handlers

import (
	"fmt"

	"github.com/belphemur/advent-calendar/internal/constants"
	"github.com/belphemur/advent-calendar/internal/reveal"
)

// Error Codes
const (
	ErrCodeInvalidCoordinates = "invalid_coordinates"
	ErrCodeInvalidDay         = "invalid_day"
	ErrCodeDayNotRevealed     = "day_not_revealed"
	ErrCodeAssetMissing       = "asset_missing"
	ErrCodeRenderFailed       = "render_failed"
	ErrCodePersistFailed      = "persist_failed"
	ErrCodeUnknown            = "unknown_error"
)

// ErrorMessages maps error codes to user-friendly messages
var ErrorMessages = map[string]string{
	ErrCodeInvalidCoordinates: "Click coordinates must be whole numbers.",
	ErrCodeInvalidDay:         "Invalid day.",
	ErrCodeDayNotRevealed:     "Open this day on the calendar first.",
	ErrCodeAssetMissing:       "The picture for this day is missing.",
	ErrCodeRenderFailed:       "Failed to draw the calendar. Please try again.",
	ErrCodePersistFailed:      "The day was opened but could not be saved; it may close again after a restart.",
	ErrCodeUnknown:            "An unknown error occurred.",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code string) string {
	if msg, ok := ErrorMessages[code]; ok {
		return msg
	}
	return ErrorMessages[ErrCodeUnknown]
}

// OutcomeTitle is the popup title for an outcome, empty when nothing is shown
func OutcomeTitle(outcome reveal.Outcome) string {
	switch outcome.Kind {
	case reveal.KindRevealed:
		return fmt.Sprintf("Day %d", outcome.Day)
	case reveal.KindRejected:
		return constants.PeekTitle
	default:
		return ""
	}
}

// OutcomeMessage is the popup text for an outcome, empty when nothing is shown
func OutcomeMessage(outcome reveal.Outcome) string {
	switch outcome.Kind {
	case reveal.KindRejected:
		return constants.PeekMessage
	case reveal.KindRevealed:
		return fmt.Sprintf("You opened day %d!", outcome.Day)
	default:
		return ""
	}
}
