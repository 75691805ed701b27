package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseLineString parses a comma-separated list of "x y" coordinate pairs,
// the same notation used in the body of a WKT LINESTRING:
//
//	76.9615707 43.2746200, 76.9616699 43.2747688
//
// An empty (or all-whitespace) input yields an empty line string. NaN and
// infinite coordinates are rejected.
func ParseLineString(s string) (LineString, error) {
	if strings.TrimSpace(s) == "" {
		return LineString{}, nil
	}

	pairs := strings.Split(s, ",")
	ls := make(LineString, 0, len(pairs))
	for i, pair := range pairs {
		fields := strings.Fields(pair)
		if len(fields) != 2 {
			return nil, fmt.Errorf("pair %d: expected \"x y\", got %q", i, strings.TrimSpace(pair))
		}

		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("pair %d: %w", i, err)
		}

		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("pair %d: %w", i, err)
		}

		if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
			return nil, fmt.Errorf("pair %d: coordinate is not finite", i)
		}

		ls = append(ls, Coord{X: x, Y: y})
	}

	return ls, nil
}
