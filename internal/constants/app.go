// Package constants provides shared constants for the advent calendar application
package constants

// AppName is the window and page title
const AppName = "Advent Calendar"

// Day numbers are days of the month; month and year are never considered.
const (
	FirstDay = 1
	LastDay  = 31
)

// PeekMessage is shown when a future day is clicked
const PeekMessage = "Santa says no peeking early!"

// PeekTitle is the title of the future-day popup
const PeekTitle = "No Peeking!"
