package geometry

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRect_Contains(t *testing.T) {
	r := Rect{MinX: 10, MinY: 20, MaxX: 30, MaxY: 40}

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{name: "top-left corner", x: 10, y: 20, expected: true},
		{name: "bottom-right corner", x: 30, y: 40, expected: true},
		{name: "inside", x: 15, y: 25, expected: true},
		{name: "left of", x: 9, y: 25, expected: false},
		{name: "right of", x: 31, y: 25, expected: false},
		{name: "above", x: 15, y: 19, expected: false},
		{name: "below", x: 15, y: 41, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.Contains(tt.x, tt.y))
		})
	}
}

func TestRect_Overlaps(t *testing.T) {
	a := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}

	assert.True(t, a.Overlaps(Rect{MinX: 10, MinY: 10, MaxX: 20, MaxY: 20}), "shared corner pixel overlaps")
	assert.True(t, a.Overlaps(Rect{MinX: 2, MinY: 2, MaxX: 3, MaxY: 3}), "nested rectangle overlaps")
	assert.False(t, a.Overlaps(Rect{MinX: 11, MinY: 0, MaxX: 20, MaxY: 10}))
	assert.False(t, a.Overlaps(Rect{MinX: 0, MinY: 11, MaxX: 10, MaxY: 20}))
}

func TestRect_Valid(t *testing.T) {
	assert.True(t, Rect{MinX: 1, MinY: 1, MaxX: 1, MaxY: 1}.Valid())
	assert.False(t, Rect{MinX: 2, MinY: 1, MaxX: 1, MaxY: 1}.Valid())
	assert.False(t, Rect{MinX: 1, MinY: 2, MaxX: 1, MaxY: 1}.Valid())
}

func TestScale_Apply(t *testing.T) {
	tests := []struct {
		name     string
		scale    Scale
		in       Rect
		expected Rect
	}{
		{
			name:     "half",
			scale:    Scale{X: 0.5, Y: 0.5},
			in:       Rect{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100},
			expected: Rect{MinX: 0, MinY: 0, MaxX: 50, MaxY: 50},
		},
		{
			name:     "truncates toward zero",
			scale:    Scale{X: 1.0 / 3.0, Y: 1.0 / 3.0},
			in:       Rect{MinX: 2, MinY: 5, MaxX: 101, MaxY: 299},
			expected: Rect{MinX: 0, MinY: 1, MaxX: 33, MaxY: 99},
		},
		{
			name:     "independent axes",
			scale:    Scale{X: 2, Y: 0.25},
			in:       Rect{MinX: 3, MinY: 8, MaxX: 4, MaxY: 17},
			expected: Rect{MinX: 6, MinY: 2, MaxX: 8, MaxY: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.scale.Apply(tt.in))
		})
	}
}

func TestScale_Valid(t *testing.T) {
	assert.True(t, Scale{X: 0.5, Y: 2}.Valid())
	assert.False(t, Scale{X: 0, Y: 1}.Valid())
	assert.False(t, Scale{X: 1, Y: -1}.Valid())
	assert.False(t, Scale{X: math.Inf(1), Y: 1}.Valid())
}

func TestDisplaySize(t *testing.T) {
	size, err := DisplaySize(image.Pt(1905, 2403), 3)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(635, 801), size)

	size, err = DisplaySize(image.Pt(100, 101), 2)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(50, 50), size, "odd sizes truncate")

	_, err = DisplaySize(image.Pt(100, 100), 0)
	assert.Error(t, err)

	_, err = DisplaySize(image.Pt(2, 2), 3)
	assert.Error(t, err)

	_, err = DisplaySize(image.Pt(0, 10), 1)
	assert.Error(t, err)
}
