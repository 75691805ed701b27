package geometry

import "math"

// Coord is a point in a planar coordinate reference system, either angular
// (degrees, e.g. WGS-84) or metric (e.g. Pseudo-Mercator).
type Coord struct {
	X float64
	Y float64
}

// LineString is an ordered sequence of coordinates describing a path.
// Duplicate consecutive coordinates are allowed.
type LineString []Coord

// Bounds returns the axis-aligned bounding box of the line string.
// An empty line string has a zero-valued box.
func (ls LineString) Bounds() (min, max Coord) {
	if len(ls) == 0 {
		return Coord{}, Coord{}
	}

	min, max = ls[0], ls[0]
	for _, c := range ls[1:] {
		min.X = math.Min(min.X, c.X)
		min.Y = math.Min(min.Y, c.Y)
		max.X = math.Max(max.X, c.X)
		max.Y = math.Max(max.Y, c.Y)
	}

	return min, max
}

// Equal reports whether the two line strings have the same length and every
// coordinate matches within tolerance on both axes.
func (ls LineString) Equal(other LineString, tolerance float64) bool {
	if len(ls) != len(other) {
		return false
	}

	for i := range ls {
		if math.Abs(ls[i].X-other[i].X) > tolerance || math.Abs(ls[i].Y-other[i].Y) > tolerance {
			return false
		}
	}

	return true
}
