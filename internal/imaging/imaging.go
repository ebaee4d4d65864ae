// Package imaging loads the calendar artwork, resizes it for display and
// composes revealed overlays on top of the base image.
package imaging

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	xdraw "golang.org/x/image/draw"

	"github.com/belphemur/advent-calendar/internal/config"
	"github.com/belphemur/advent-calendar/internal/geometry"
	"github.com/belphemur/advent-calendar/internal/logging"
)

// Catalog owns every image the front ends draw. It is safe for concurrent use.
type Catalog struct {
	assets     config.AssetsConfig
	canonical  image.Point
	display    image.Point
	scale      geometry.Scale
	background *image.RGBA
	logger     zerolog.Logger

	mu        sync.Mutex
	chatheads map[int]image.Image
	cards     map[int]image.Image
	peek      image.Image
}

// LoadCatalog decodes the base calendar image and derives the display size.
// A missing or unreadable base image is a startup error.
func LoadCatalog(assets config.AssetsConfig, divisor int) (*Catalog, error) {
	logger := logging.GetLogger("imaging")

	path := filepath.Join(assets.Dir, assets.CalendarImage)
	base, err := decodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar image: %w", err)
	}

	canonical := base.Bounds().Size()
	display, err := geometry.DisplaySize(canonical, divisor)
	if err != nil {
		return nil, fmt.Errorf("invalid display size for %s: %w", path, err)
	}

	logger.Info().
		Str("path", path).
		Str("canonical", canonical.String()).
		Str("display", display.String()).
		Msg("Loaded calendar image")

	return &Catalog{
		assets:     assets,
		canonical:  canonical,
		display:    display,
		scale:      geometry.ScaleBetween(canonical, display),
		background: Resize(base, display),
		logger:     logger,
		chatheads:  make(map[int]image.Image),
		cards:      make(map[int]image.Image),
	}, nil
}

// CanonicalSize is the size of the calendar image on disk
func (c *Catalog) CanonicalSize() image.Point { return c.canonical }

// DisplaySize is the size everything is drawn at
func (c *Catalog) DisplaySize() image.Point { return c.display }

// Scale maps canonical coordinates onto the display
func (c *Catalog) Scale() geometry.Scale { return c.scale }

// Background returns the resized base image. Callers must not modify it.
func (c *Catalog) Background() image.Image { return c.background }

// Chathead returns the overlay for day at display size
func (c *Catalog) Chathead(day int) (image.Image, error) {
	return c.cached(c.chatheads, day, c.assets.ChatheadPattern, c.display)
}

// EventCard returns the card shown when day is opened
func (c *Catalog) EventCard(day int) (image.Image, error) {
	size := image.Pt(c.assets.CardWidth, c.assets.CardHeight)
	return c.cached(c.cards, day, c.assets.CardPattern, size)
}

// PeekImage returns the image shown when a locked day is clicked
func (c *Catalog) PeekImage() (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.peek != nil {
		return c.peek, nil
	}
	img, err := decodeFile(filepath.Join(c.assets.Dir, c.assets.PeekImage))
	if err != nil {
		return nil, err
	}
	c.peek = Resize(img, image.Pt(c.assets.PeekSize, c.assets.PeekSize))
	return c.peek, nil
}

// Compose draws the base image with the overlay of every given day on top.
// Overlays that cannot be loaded are logged and skipped.
func (c *Catalog) Compose(days []int) *image.RGBA {
	dst := image.NewRGBA(c.background.Bounds())
	xdraw.Draw(dst, dst.Bounds(), c.background, image.Point{}, xdraw.Src)

	for _, day := range days {
		overlay, err := c.Chathead(day)
		if err != nil {
			c.logger.Warn().Err(err).Int("day", day).Msg("Skipping missing overlay")
			continue
		}
		xdraw.Draw(dst, dst.Bounds(), overlay, overlay.Bounds().Min, xdraw.Over)
	}
	return dst
}

func (c *Catalog) assetPath(pattern string, day int) string {
	return filepath.Join(c.assets.Dir, fmt.Sprintf(pattern, day))
}

// cached returns the resized image for day, decoding it on first use.
// Failures are not cached so an asset added later is picked up.
func (c *Catalog) cached(cache map[int]image.Image, day int, pattern string, size image.Point) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if img, ok := cache[day]; ok {
		return img, nil
	}

	path := c.assetPath(pattern, day)
	img, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	resized := Resize(img, size)
	cache[day] = resized
	c.logger.Debug().Str("path", path).Msg("Cached image")
	return resized, nil
}

// Resize scales src to exactly size with Catmull-Rom resampling
func Resize(src image.Image, size image.Point) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// EncodePNG writes img with fast compression, suited to per-request encoding
func EncodePNG(w io.Writer, img image.Image) error {
	encoder := png.Encoder{CompressionLevel: png.BestSpeed}
	return encoder.Encode(w, img)
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}
