package app

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/belphemur/advent-calendar/internal/config"
)

// Test fixture layout: a 300x300 calendar shown at 100x100. Display regions
// are day 1 [0,0,30,30], day 5 [50,0,80,30] and day 24 [0,50,30,80].
const testRegions = `{
  "1":  [0, 0, 90, 90],
  "5":  [150, 0, 240, 90],
  "24": [0, 150, 90, 240]
}`

// TestToday is the day of month reported by NewTestApp's clock
const TestToday = 10

// WriteTestAssets creates artwork and a region file in a temp directory and
// returns a configuration that points at them.
func WriteTestAssets(t *testing.T, backend string) *config.Config {
	t.Helper()
	dir := t.TempDir()

	writeTestPNG(t, filepath.Join(dir, "Christmas_Advent_Calendar.png"), 300, 300, color.RGBA{G: 128, A: 255})
	for _, day := range []string{"1", "5", "24"} {
		writeTestPNG(t, filepath.Join(dir, "chatheads", "Chathead_"+day+".png"), 300, 300, color.Transparent)
	}
	for _, day := range []string{"1", "5"} {
		writeTestPNG(t, filepath.Join(dir, "daily_images", "Day "+day+" Event Card.png"), 81, 54, color.RGBA{R: 200, A: 255})
	}
	writeTestPNG(t, filepath.Join(dir, "image.png"), 20, 20, color.RGBA{R: 255, G: 255, A: 255})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "original_area.json"), []byte(testRegions), 0o644))

	return &config.Config{
		App: config.AppConfig{Port: 8888, Title: "Test Calendar"},
		Calendar: config.CalendarConfig{
			RegionsFile:  filepath.Join(dir, "original_area.json"),
			ScaleDivisor: 3,
			Timezone:     "UTC",
		},
		Assets: config.AssetsConfig{
			Dir:             dir,
			CalendarImage:   "Christmas_Advent_Calendar.png",
			ChatheadPattern: "chatheads/Chathead_%d.png",
			CardPattern:     "daily_images/Day %d Event Card.png",
			PeekImage:       "image.png",
			CardWidth:       81,
			CardHeight:      54,
			PeekSize:        12,
		},
		State: config.StateConfig{
			Backend:  backend,
			File:     filepath.Join(dir, "advent_calendar_state.json"),
			Database: filepath.Join(dir, "data", "advent.db"),
		},
		Service: config.ServiceConfig{LogLevel: "debug"},
	}
}

// NewTestApp builds an App over fresh test assets with the clock pinned to
// TestToday.
func NewTestApp(t *testing.T, backend string) *App {
	t.Helper()
	a, err := New(WriteTestAssets(t, backend))
	require.NoError(t, err)
	a.Clock = TestClock
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// TestClock is pinned to noon UTC on December TestToday
func TestClock() time.Time {
	return time.Date(2025, time.December, TestToday, 12, 0, 0, 0, time.UTC)
}

func writeTestPNG(t *testing.T, path string, w, h int, fill color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, fill)
		}
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}
