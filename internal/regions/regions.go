// Package regions maps pointer coordinates on the displayed calendar image to
// day numbers.
package regions

import (
	"errors"
	"fmt"
	"sort"

	"github.com/belphemur/advent-calendar/internal/constants"
	"github.com/belphemur/advent-calendar/internal/geometry"
)

// ConfigError reports unusable canonical region data. It is fatal at startup.
type ConfigError struct {
	Source string // File or component the data came from, may be empty
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("invalid region configuration: %v", e.Err)
	}
	return fmt.Sprintf("invalid region configuration in %s: %v", e.Source, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ErrEmptyTable is wrapped by a ConfigError when no region is defined.
var ErrEmptyTable = errors.New("canonical region table is empty")

// Canonical maps a day number to its rectangle in unscaled image coordinates.
type Canonical map[int]geometry.Rect

// Region is one day's hit rectangle in display coordinates.
type Region struct {
	Day  int
	Rect geometry.Rect
}

// Table is the immutable, scaled region index. Regions are kept in ascending
// day order and Lookup scans them in that order.
type Table struct {
	regions []Region
	scale   geometry.Scale
}

// Build scales every canonical rectangle into display space.
func Build(canonical Canonical, scale geometry.Scale) (*Table, error) {
	if len(canonical) == 0 {
		return nil, &ConfigError{Err: ErrEmptyTable}
	}
	if !scale.Valid() {
		return nil, &ConfigError{Err: fmt.Errorf("scale factors must be positive, got (%v, %v)", scale.X, scale.Y)}
	}

	regions := make([]Region, 0, len(canonical))
	for day, rect := range canonical {
		if !constants.IsValidDay(day) {
			return nil, &ConfigError{Err: fmt.Errorf("day %d is outside %d..%d", day, constants.FirstDay, constants.LastDay)}
		}
		if !rect.Valid() {
			return nil, &ConfigError{Err: fmt.Errorf("day %d has inverted rectangle %s", day, rect)}
		}
		regions = append(regions, Region{Day: day, Rect: scale.Apply(rect)})
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].Day < regions[j].Day })

	return &Table{regions: regions, scale: scale}, nil
}

// Lookup returns the day whose rectangle contains (x, y). A miss is reported
// with ok == false and is not an error.
func (t *Table) Lookup(x, y int) (day int, ok bool) {
	for _, r := range t.regions {
		if r.Rect.Contains(x, y) {
			return r.Day, true
		}
	}
	return 0, false
}

// Rect returns the display rectangle for a day.
func (t *Table) Rect(day int) (geometry.Rect, bool) {
	i := sort.Search(len(t.regions), func(i int) bool { return t.regions[i].Day >= day })
	if i < len(t.regions) && t.regions[i].Day == day {
		return t.regions[i].Rect, true
	}
	return geometry.Rect{}, false
}

// Days returns every day number in the table, ascending.
func (t *Table) Days() []int {
	days := make([]int, len(t.regions))
	for i, r := range t.regions {
		days[i] = r.Day
	}
	return days
}

// Regions returns a copy of the scaled regions, ascending by day.
func (t *Table) Regions() []Region {
	out := make([]Region, len(t.regions))
	copy(out, t.regions)
	return out
}

// Len returns the number of regions.
func (t *Table) Len() int {
	return len(t.regions)
}

// Scale returns the factors the table was built with.
func (t *Table) Scale() geometry.Scale {
	return t.scale
}

// Overlap is a pair of days whose scaled rectangles intersect.
type Overlap struct {
	First  int
	Second int
}

// Overlaps lists every intersecting pair. Lookup resolves such clicks to the
// lower day, so callers should surface these as authoring mistakes.
func (t *Table) Overlaps() []Overlap {
	var out []Overlap
	for i := 0; i < len(t.regions); i++ {
		for j := i + 1; j < len(t.regions); j++ {
			if t.regions[i].Rect.Overlaps(t.regions[j].Rect) {
				out = append(out, Overlap{First: t.regions[i].Day, Second: t.regions[j].Day})
			}
		}
	}
	return out
}
