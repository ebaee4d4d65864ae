package desktop

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belphemur/advent-calendar/internal/app"
	"github.com/belphemur/advent-calendar/internal/config"
	"github.com/belphemur/advent-calendar/internal/constants"
	"github.com/belphemur/advent-calendar/internal/reveal"
)

func newTestController(t *testing.T) (*Controller, *app.App) {
	t.Helper()
	a := app.NewTestApp(t, config.BackendJSON)
	c := NewController(a)
	t.Cleanup(c.Close)
	return c, a
}

func TestController_RevealQueuesCardPopup(t *testing.T) {
	c, _ := newTestController(t)
	require.True(t, c.TakeDirty(), "the first frame composes the calendar")

	outcome, err := c.Click(context.Background(), 10, 10)
	require.NoError(t, err)
	assert.Equal(t, reveal.KindRevealed, outcome.Kind)

	require.Eventually(t, func() bool { return c.Active() != nil }, time.Second, 10*time.Millisecond)
	popup := c.Active()
	assert.Equal(t, "Day 1", popup.Title)
	assert.Equal(t, "You opened day 1!", popup.Message)
	require.NotNil(t, popup.Image)
	assert.Equal(t, image.Pt(81, 54), popup.Image.Bounds().Size())

	assert.True(t, c.TakeDirty())
	assert.False(t, c.TakeDirty(), "the flag clears once taken")
}

func TestController_RejectQueuesPeekPopup(t *testing.T) {
	c, _ := newTestController(t)
	c.TakeDirty()

	outcome, err := c.Click(context.Background(), 10, 60)
	require.NoError(t, err)
	assert.Equal(t, reveal.KindRejected, outcome.Kind)

	require.Eventually(t, func() bool { return c.Active() != nil }, time.Second, 10*time.Millisecond)
	popup := c.Active()
	assert.Equal(t, constants.PeekTitle, popup.Title)
	assert.Equal(t, constants.PeekMessage, popup.Message)
	require.NotNil(t, popup.Image)
	assert.Equal(t, image.Pt(12, 12), popup.Image.Bounds().Size())
	assert.False(t, c.TakeDirty(), "a rejection does not change the calendar")
}

func TestController_NoOpShowsNothing(t *testing.T) {
	c, _ := newTestController(t)

	outcome, err := c.Click(context.Background(), 95, 95)
	require.NoError(t, err)
	assert.Equal(t, reveal.ReasonNoTarget, outcome.Reason)
	assert.Nil(t, c.Active())
}

func TestController_PressClosesPopupFirst(t *testing.T) {
	c, a := newTestController(t)
	ctx := context.Background()

	assert.True(t, c.Press(ctx, 10, 60))
	require.Eventually(t, func() bool { return c.Active() != nil }, time.Second, 10*time.Millisecond)

	// The press over day 1 only closes the popup
	assert.False(t, c.Press(ctx, 10, 10))
	assert.Nil(t, c.Active())
	assert.Empty(t, a.Machine.Revealed())

	assert.True(t, c.Press(ctx, 10, 10))
	assert.Equal(t, []int{1}, a.Machine.Revealed())
}

func TestController_DismissShowsNextPopup(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()

	_, err := c.Click(ctx, 10, 60)
	require.NoError(t, err)
	_, err = c.Click(ctx, 10, 10)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return c.Active() != nil }, time.Second, 10*time.Millisecond)
	assert.Equal(t, constants.PeekTitle, c.Active().Title)

	c.Dismiss()
	require.Eventually(t, func() bool { return c.Active() != nil }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "Day 1", c.Active().Title)

	c.Dismiss()
	assert.Nil(t, c.Active())
}

func TestController_MissingCardStillShowsPopup(t *testing.T) {
	c, a := newTestController(t)
	require.NoError(t, os.Remove(filepath.Join(a.Config.Assets.Dir, "daily_images", "Day 5 Event Card.png")))

	outcome, err := c.Click(context.Background(), 60, 10)
	require.NoError(t, err)
	require.Equal(t, reveal.KindRevealed, outcome.Kind)

	require.Eventually(t, func() bool { return c.Active() != nil }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "Day 5", c.Active().Title)
	assert.Nil(t, c.Active().Image)
}

func TestController_QueueOverflowDropsPopups(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()

	for i := 0; i < popupQueueSize+3; i++ {
		_, err := c.Click(ctx, 10, 60)
		require.NoError(t, err)
	}

	shown := 0
	for c.Active() != nil {
		shown++
		c.Dismiss()
	}
	assert.Equal(t, popupQueueSize, shown)
}

func TestController_CloseRemovesListeners(t *testing.T) {
	c, a := newTestController(t)
	before := a.Bus.Len()

	c.Close()
	assert.Equal(t, before-2, a.Bus.Len())

	_, err := c.Click(context.Background(), 10, 60)
	require.NoError(t, err)
	assert.Nil(t, c.Active())
}

func TestController_Compose(t *testing.T) {
	c, _ := newTestController(t)

	img := c.Compose()
	assert.Equal(t, image.Pt(100, 100), img.Bounds().Size())
}

func TestPopupLayout(t *testing.T) {
	screen := image.Pt(100, 100)

	tests := []struct {
		name          string
		content       image.Point
		expected      image.Rectangle
		expectedScale float64
	}{
		{name: "card", content: image.Pt(40, 20), expected: image.Rect(18, 14, 82, 86), expectedScale: 1},
		{name: "text only", content: image.Point{}, expected: image.Rect(13, 24, 87, 76), expectedScale: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box, scale := popupLayout(screen, tt.content)
			assert.Equal(t, tt.expected, box)
			assert.Equal(t, tt.expectedScale, scale)
		})
	}
}

func TestPopupLayout_ShrinksLargeImages(t *testing.T) {
	tests := []struct {
		name    string
		screen  image.Point
		content image.Point
	}{
		// Default artwork shown at a third of its size with a full-size card
		{name: "event card on default calendar", screen: image.Pt(635, 801), content: image.Pt(810, 540)},
		{name: "square larger than screen", screen: image.Pt(100, 100), content: image.Pt(300, 300)},
		{name: "tall image", screen: image.Pt(400, 300), content: image.Pt(200, 900)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screenRect := image.Rectangle{Max: tt.screen}
			box, scale := popupLayout(tt.screen, tt.content)

			assert.Less(t, scale, 1.0)
			assert.Greater(t, scale, 0.0)
			assert.True(t, box.In(screenRect), "popup %v leaves the screen %v", box, screenRect)

			drawn := popupImageRect(box, tt.content, scale)
			assert.True(t, drawn.In(box), "image %v leaves the popup %v", drawn, box)
			assert.InDelta(t,
				float64(tt.content.X)/float64(tt.content.Y),
				float64(drawn.Dx())/float64(drawn.Dy()),
				0.05, "aspect ratio is kept")
		})
	}
}

func TestPopupImageRect_FullSize(t *testing.T) {
	box, scale := popupLayout(image.Pt(100, 100), image.Pt(40, 20))

	drawn := popupImageRect(box, image.Pt(40, 20), scale)
	assert.Equal(t, image.Rect(30, 34, 70, 54), drawn)
}
