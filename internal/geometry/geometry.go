// Package geometry holds the pixel-space types shared by the region index and
// the imaging pipeline, together with the single truncation policy both of
// them must apply so that hit regions stay aligned with the resized image.
package geometry

import (
	"fmt"
	"image"
	"math"
)

// Rect is an axis-aligned rectangle with inclusive bounds.
type Rect struct {
	MinX int
	MinY int
	MaxX int
	MaxY int
}

// Valid reports whether the rectangle respects MinX <= MaxX and MinY <= MaxY.
func (r Rect) Valid() bool {
	return r.MinX <= r.MaxX && r.MinY <= r.MaxY
}

// Contains reports whether (x, y) lies inside the rectangle, edges included.
func (r Rect) Contains(x, y int) bool {
	return r.MinX <= x && x <= r.MaxX && r.MinY <= y && y <= r.MaxY
}

// Overlaps reports whether the two rectangles share at least one pixel.
func (r Rect) Overlaps(o Rect) bool {
	return r.MinX <= o.MaxX && o.MinX <= r.MaxX && r.MinY <= o.MaxY && o.MinY <= r.MaxY
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d,%d,%d]", r.MinX, r.MinY, r.MaxX, r.MaxY)
}

// Truncate converts a scaled coordinate to a pixel position by dropping the
// fractional part (toward zero). Every size or coordinate derived from a
// scale factor goes through here.
func Truncate(v float64) int {
	return int(v)
}

// Scale is a pair of per-axis scale factors from canonical to display space.
type Scale struct {
	X float64
	Y float64
}

// Valid reports whether both factors are finite and strictly positive.
func (s Scale) Valid() bool {
	return s.X > 0 && s.Y > 0 && !math.IsInf(s.X, 0) && !math.IsInf(s.Y, 0)
}

// ScaleBetween returns the scale that maps the canonical size onto the
// display size.
func ScaleBetween(canonical, display image.Point) Scale {
	return Scale{
		X: float64(display.X) / float64(canonical.X),
		Y: float64(display.Y) / float64(canonical.Y),
	}
}

// Apply scales a rectangle, truncating every coordinate.
func (s Scale) Apply(r Rect) Rect {
	return Rect{
		MinX: Truncate(float64(r.MinX) * s.X),
		MinY: Truncate(float64(r.MinY) * s.Y),
		MaxX: Truncate(float64(r.MaxX) * s.X),
		MaxY: Truncate(float64(r.MaxY) * s.Y),
	}
}

// DisplaySize shrinks a canonical image size by an integer divisor using the
// shared truncation policy.
func DisplaySize(canonical image.Point, divisor int) (image.Point, error) {
	if divisor < 1 {
		return image.Point{}, fmt.Errorf("scale divisor must be at least 1, got %d", divisor)
	}
	if canonical.X < 1 || canonical.Y < 1 {
		return image.Point{}, fmt.Errorf("canonical size %v is empty", canonical)
	}
	size := image.Point{
		X: Truncate(float64(canonical.X) / float64(divisor)),
		Y: Truncate(float64(canonical.Y) / float64(divisor)),
	}
	if size.X < 1 || size.Y < 1 {
		return image.Point{}, fmt.Errorf("divisor %d shrinks %v to nothing", divisor, canonical)
	}
	return size, nil
}
