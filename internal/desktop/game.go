package desktop

import (
	"context"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/belphemur/advent-calendar/internal/app"
	"github.com/belphemur/advent-calendar/internal/constants"
)

const (
	popupPadding    = 12
	popupTextHeight = 40
)

var (
	shadeColor = color.RGBA{A: 160}
	popupColor = color.RGBA{R: 250, G: 246, B: 238, A: 255}
)

// Game draws the calendar in a native window
type Game struct {
	ctx        context.Context
	controller *Controller
	size       image.Point

	calendar   *ebiten.Image
	shown      *Popup
	popupImage *ebiten.Image
}

// NewGame creates a game over a bootstrapped app
func NewGame(ctx context.Context, a *app.App) *Game {
	return &Game{
		ctx:        ctx,
		controller: NewController(a),
		size:       a.Catalog.DisplaySize(),
	}
}

// Update runs one tick: input first, then texture refresh
func (g *Game) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.controller.Press(g.ctx, x, y)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.controller.Dismiss()
	}

	if g.controller.TakeDirty() || g.calendar == nil {
		if g.calendar != nil {
			g.calendar.Deallocate()
		}
		g.calendar = ebiten.NewImageFromImage(g.controller.Compose())
	}

	if popup := g.controller.Active(); popup != g.shown {
		if g.popupImage != nil {
			g.popupImage.Deallocate()
			g.popupImage = nil
		}
		if popup != nil && popup.Image != nil {
			g.popupImage = ebiten.NewImageFromImage(popup.Image)
		}
		g.shown = popup
	}
	return nil
}

// Draw renders the calendar and the open popup
func (g *Game) Draw(screen *ebiten.Image) {
	if g.calendar != nil {
		screen.DrawImage(g.calendar, nil)
	}
	if g.shown == nil {
		return
	}

	vector.DrawFilledRect(screen, 0, 0, float32(g.size.X), float32(g.size.Y), shadeColor, false)

	var content image.Point
	if g.popupImage != nil {
		content = g.popupImage.Bounds().Size()
	}
	box, scale := popupLayout(g.size, content)
	vector.DrawFilledRect(screen, float32(box.Min.X), float32(box.Min.Y), float32(box.Dx()), float32(box.Dy()), popupColor, false)

	ebitenutil.DebugPrintAt(screen, g.shown.Title, box.Min.X+popupPadding, box.Min.Y+popupPadding/2)
	if g.popupImage != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(float64(box.Min.X+popupPadding), float64(box.Min.Y+popupTextHeight/2))
		screen.DrawImage(g.popupImage, op)
	}
	ebitenutil.DebugPrintAt(screen, g.shown.Message, box.Min.X+popupPadding, box.Max.Y-popupTextHeight/2)
}

// Layout keeps the logical screen at the calendar's display size
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.size.X, g.size.Y
}

// Close releases the bus listeners
func (g *Game) Close() {
	g.controller.Close()
}

// popupLayout centers a popup within the screen and returns the factor its
// image is drawn at. Images larger than the screen are shrunk to fit, keeping
// their aspect ratio. A text-only popup spans half the screen width.
func popupLayout(screen, content image.Point) (image.Rectangle, float64) {
	scale := 1.0
	if content.X > 0 && content.Y > 0 {
		room := image.Pt(screen.X-2*popupPadding, screen.Y-popupTextHeight-popupPadding)
		scale = max(0, min(1, float64(room.X)/float64(content.X), float64(room.Y)/float64(content.Y)))
		content = image.Pt(int(float64(content.X)*scale), int(float64(content.Y)*scale))
	} else {
		content = image.Pt(screen.X/2, 0)
	}

	w := min(content.X+2*popupPadding, screen.X)
	h := min(content.Y+popupTextHeight+popupPadding, screen.Y)
	x := (screen.X - w) / 2
	y := (screen.Y - h) / 2
	return image.Rect(x, y, x+w, y+h), scale
}

// popupImageRect is where an image of the given size lands inside box
func popupImageRect(box image.Rectangle, content image.Point, scale float64) image.Rectangle {
	origin := image.Pt(box.Min.X+popupPadding, box.Min.Y+popupTextHeight/2)
	size := image.Pt(int(float64(content.X)*scale), int(float64(content.Y)*scale))
	return image.Rectangle{Min: origin, Max: origin.Add(size)}
}

// Run opens the calendar window and blocks until it is closed or ctx is done
func Run(ctx context.Context, a *app.App) error {
	game := NewGame(ctx, a)
	defer game.Close()

	size := a.Catalog.DisplaySize()
	ebiten.SetWindowSize(size.X, size.Y)
	ebiten.SetWindowTitle(a.Config.App.Title)
	if a.Config.App.Title == "" {
		ebiten.SetWindowTitle(constants.AppName)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)

	return ebiten.RunGame(game)
}
