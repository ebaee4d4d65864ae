package regions

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/belphemur/advent-calendar/internal/geometry"
)

// LoadCanonical reads a canonical region file: a JSON object keyed by day
// number whose values are [x_min, y_min, x_max, y_max] integer arrays.
func LoadCanonical(path string) (Canonical, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Source: path, Err: fmt.Errorf("failed to read region file: %w", err)}
	}

	canonical, err := ParseCanonical(data)
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.Source = path
			return nil, cfgErr
		}
		return nil, &ConfigError{Source: path, Err: err}
	}
	return canonical, nil
}

// ParseCanonical decodes the canonical region JSON document.
func ParseCanonical(data []byte) (Canonical, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("region file must be a JSON object: %w", err)}
	}
	if len(raw) == 0 {
		return nil, &ConfigError{Err: ErrEmptyTable}
	}

	canonical := make(Canonical, len(raw))
	for key, value := range raw {
		day, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, &ConfigError{Err: fmt.Errorf("region key %q is not a day number", key)}
		}
		if _, dup := canonical[day]; dup {
			// "5" and "05" both decode to day 5.
			return nil, &ConfigError{Err: fmt.Errorf("day %d is defined more than once", day)}
		}

		var coords []int
		if err := json.Unmarshal(value, &coords); err != nil {
			return nil, &ConfigError{Err: fmt.Errorf("day %d: coordinates must be integers: %w", day, err)}
		}
		if len(coords) != 4 {
			return nil, &ConfigError{Err: fmt.Errorf("day %d: expected 4 coordinates, got %d", day, len(coords))}
		}

		canonical[day] = geometry.Rect{MinX: coords[0], MinY: coords[1], MaxX: coords[2], MaxY: coords[3]}
	}
	return canonical, nil
}
