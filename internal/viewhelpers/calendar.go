package viewhelpers

import (
	"fmt"
	"strings"

	"github.com/belphemur/advent-calendar/internal/regions"
	"github.com/belphemur/advent-calendar/internal/reveal"
)

// StateReader reports the display state of a day
type StateReader interface {
	State(day, today int) reveal.DayState
}

// DayTile is one clickable day drawn over the calendar image, in display
// coordinates.
type DayTile struct {
	Day        int
	State      reveal.DayState
	Left       int
	Top        int
	Width      int
	Height     int
	Label      string
	CardURL    string // Empty unless the day is revealed
	CSSClasses string
}

// Summary counts the tiles per state
type Summary struct {
	Total    int
	Revealed int
	Hidden   int
	Locked   int
}

// CardURL is the route serving the event card of day
func CardURL(day int) string {
	return fmt.Sprintf("/days/%d/card.png", day)
}

// BuildDayTiles maps every region to a tile in ascending day order.
// Rectangles are inclusive, so a region spans MaxX-MinX+1 pixels.
func BuildDayTiles(regionList []regions.Region, states StateReader, today int) []DayTile {
	tiles := make([]DayTile, 0, len(regionList))
	for _, region := range regionList {
		state := states.State(region.Day, today)
		tile := DayTile{
			Day:    region.Day,
			State:  state,
			Left:   region.Rect.MinX,
			Top:    region.Rect.MinY,
			Width:  region.Rect.MaxX - region.Rect.MinX + 1,
			Height: region.Rect.MaxY - region.Rect.MinY + 1,
			Label:  tileLabel(region.Day, state),
		}
		if state == reveal.DayRevealed {
			tile.CardURL = CardURL(region.Day)
		}
		tile.CSSClasses = tileClasses(state, region.Day == today)
		tiles = append(tiles, tile)
	}
	return tiles
}

// Summarize counts tiles by state
func Summarize(tiles []DayTile) Summary {
	summary := Summary{Total: len(tiles)}
	for _, tile := range tiles {
		switch tile.State {
		case reveal.DayRevealed:
			summary.Revealed++
		case reveal.DayHidden:
			summary.Hidden++
		case reveal.DayLocked:
			summary.Locked++
		}
	}
	return summary
}

func tileLabel(day int, state reveal.DayState) string {
	switch state {
	case reveal.DayRevealed:
		return fmt.Sprintf("Day %d (opened)", day)
	case reveal.DayLocked:
		return fmt.Sprintf("Day %d (locked)", day)
	default:
		return fmt.Sprintf("Day %d", day)
	}
}

func tileClasses(state reveal.DayState, isToday bool) string {
	classes := []string{"tile", "tile-" + state.String()}
	if isToday {
		classes = append(classes, "tile-today")
	}
	return strings.Join(classes, " ")
}
