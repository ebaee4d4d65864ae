package regions

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belphemur/advent-calendar/internal/geometry"
)

func sampleCanonical() Canonical {
	return Canonical{
		1:  {MinX: 0, MinY: 0, MaxX: 99, MaxY: 99},
		2:  {MinX: 120, MinY: 0, MaxX: 219, MaxY: 99},
		5:  {MinX: 0, MinY: 120, MaxX: 99, MaxY: 219},
		20: {MinX: 240, MinY: 240, MaxX: 399, MaxY: 399},
	}
}

func TestBuild_ScalesWithTruncation(t *testing.T) {
	table, err := Build(Canonical{5: {MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}}, geometry.Scale{X: 0.5, Y: 0.5})
	require.NoError(t, err)

	rect, ok := table.Rect(5)
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{MinX: 0, MinY: 0, MaxX: 50, MaxY: 50}, rect)
	assert.Equal(t, geometry.Scale{X: 0.5, Y: 0.5}, table.Scale())
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name      string
		canonical Canonical
		scale     geometry.Scale
	}{
		{name: "empty table", canonical: Canonical{}, scale: geometry.Scale{X: 1, Y: 1}},
		{name: "nil table", canonical: nil, scale: geometry.Scale{X: 1, Y: 1}},
		{name: "zero x scale", canonical: sampleCanonical(), scale: geometry.Scale{X: 0, Y: 1}},
		{name: "negative y scale", canonical: sampleCanonical(), scale: geometry.Scale{X: 1, Y: -0.5}},
		{name: "day zero", canonical: Canonical{0: {MaxX: 1, MaxY: 1}}, scale: geometry.Scale{X: 1, Y: 1}},
		{name: "day past month end", canonical: Canonical{32: {MaxX: 1, MaxY: 1}}, scale: geometry.Scale{X: 1, Y: 1}},
		{name: "inverted rectangle", canonical: Canonical{3: {MinX: 10, MaxX: 5, MaxY: 1}}, scale: geometry.Scale{X: 1, Y: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Build(tt.canonical, tt.scale)
			assert.Nil(t, table)
			require.Error(t, err)

			var cfgErr *ConfigError
			assert.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %T", err)
		})
	}
}

func TestBuild_EmptyTableWrapsSentinel(t *testing.T) {
	_, err := Build(Canonical{}, geometry.Scale{X: 1, Y: 1})
	assert.ErrorIs(t, err, ErrEmptyTable)
}

func TestLookup_CornersAndEdges(t *testing.T) {
	scales := []geometry.Scale{
		{X: 1, Y: 1},
		{X: 0.5, Y: 0.5},
		{X: 1.0 / 3.0, Y: 1.0 / 3.0},
		{X: 0.75, Y: 0.4},
	}

	canonical := sampleCanonical()
	for _, scale := range scales {
		table, err := Build(canonical, scale)
		require.NoError(t, err)

		for day := range canonical {
			rect, ok := table.Rect(day)
			require.True(t, ok)

			got, ok := table.Lookup(rect.MinX, rect.MinY)
			assert.True(t, ok, "scale %v day %d top-left should hit", scale, day)
			assert.Equal(t, day, got, "scale %v top-left of day %d", scale, day)

			got, ok = table.Lookup(rect.MaxX, rect.MaxY)
			assert.True(t, ok)
			assert.Equal(t, day, got, "scale %v bottom-right of day %d", scale, day)

			got, ok = table.Lookup(rect.MaxX+1, rect.MinY)
			if ok {
				assert.NotEqual(t, day, got, "scale %v: just right of day %d must not resolve to it", scale, day)
			}
		}
	}
}

func TestLookup_Miss(t *testing.T) {
	table, err := Build(sampleCanonical(), geometry.Scale{X: 1, Y: 1})
	require.NoError(t, err)

	day, ok := table.Lookup(110, 50)
	assert.False(t, ok)
	assert.Zero(t, day)

	_, ok = table.Lookup(-1, -1)
	assert.False(t, ok)
}

func TestLookup_OverlapResolvesToLowerDay(t *testing.T) {
	table, err := Build(Canonical{
		9: {MinX: 0, MinY: 0, MaxX: 50, MaxY: 50},
		4: {MinX: 25, MinY: 25, MaxX: 75, MaxY: 75},
	}, geometry.Scale{X: 1, Y: 1})
	require.NoError(t, err)

	day, ok := table.Lookup(30, 30)
	require.True(t, ok)
	assert.Equal(t, 4, day)

	assert.Equal(t, []Overlap{{First: 4, Second: 9}}, table.Overlaps())
}

func TestTable_Accessors(t *testing.T) {
	table, err := Build(sampleCanonical(), geometry.Scale{X: 1, Y: 1})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 5, 20}, table.Days())
	assert.Equal(t, 4, table.Len())
	assert.Empty(t, table.Overlaps())

	regions := table.Regions()
	require.Len(t, regions, 4)
	regions[0].Day = 99
	assert.Equal(t, 1, table.Regions()[0].Day, "Regions must return a copy")

	_, ok := table.Rect(3)
	assert.False(t, ok)
}

func TestParseCanonical(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		canonical, err := ParseCanonical([]byte(`{"1": [10, 20, 30, 40], " 12 ": [0, 0, 5, 5]}`))
		require.NoError(t, err)
		assert.Equal(t, Canonical{
			1:  {MinX: 10, MinY: 20, MaxX: 30, MaxY: 40},
			12: {MinX: 0, MinY: 0, MaxX: 5, MaxY: 5},
		}, canonical)
	})

	invalid := []struct {
		name string
		doc  string
	}{
		{name: "not json", doc: `{{`},
		{name: "array document", doc: `[[0,0,1,1]]`},
		{name: "empty object", doc: `{}`},
		{name: "non numeric key", doc: `{"one": [0, 0, 1, 1]}`},
		{name: "three coordinates", doc: `{"1": [0, 0, 1]}`},
		{name: "five coordinates", doc: `{"1": [0, 0, 1, 1, 1]}`},
		{name: "string coordinate", doc: `{"1": ["0", 0, 1, 1]}`},
		{name: "fractional coordinate", doc: `{"1": [0.5, 0, 1, 1]}`},
		{name: "duplicate day", doc: `{"5": [0, 0, 1, 1], "05": [2, 2, 3, 3]}`},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCanonical([]byte(tt.doc))
			var cfgErr *ConfigError
			assert.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %v", err)
		})
	}
}

func TestLoadCanonical(t *testing.T) {
	dir := t.TempDir()

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(dir, "areas.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"3": [1, 2, 3, 4]}`), 0644))

		canonical, err := LoadCanonical(path)
		require.NoError(t, err)
		assert.Equal(t, Canonical{3: {MinX: 1, MinY: 2, MaxX: 3, MaxY: 4}}, canonical)
	})

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(dir, "missing.json")
		_, err := LoadCanonical(path)

		var cfgErr *ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, path, cfgErr.Source)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("schema error carries path", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"x": [1, 2, 3, 4]}`), 0644))

		_, err := LoadCanonical(path)
		var cfgErr *ConfigError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, path, cfgErr.Source)
		assert.Contains(t, err.Error(), path)
	})
}
