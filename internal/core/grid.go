// Package core provides grid geometry and small value types shared by the
// editor packages. It imports nothing outside the standard library.
package core

import (
	"fmt"
	"math"
)

// Point is a world position. Y is ground level (0) for everything the editor
// produces and is only carried for downstream consumers.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// P is a convenience constructor for a ground-level point.
func P(x, z float64) Point {
	return Point{X: x, Z: z}
}

// String returns a string representation of the point on the ground plane.
func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Z)
}

// SameCell reports whether two points occupy the same grid position.
// Only X and Z take part in the comparison.
func (p Point) SameCell(other Point) bool {
	return p.X == other.X && p.Z == other.Z
}

// Mirror returns the point reflected across the X axis origin (x -> -x).
func (p Point) Mirror() Point {
	return Point{X: normalizeZero(-p.X), Y: p.Y, Z: p.Z}
}

// Snap rounds each ground axis to the nearest multiple of gridSize.
// A non-positive grid size leaves the point unchanged apart from Y.
func Snap(p Point, gridSize float64) Point {
	if gridSize <= 0 {
		return Point{X: p.X, Z: p.Z}
	}
	return Point{
		X: normalizeZero(math.Round(p.X/gridSize) * gridSize),
		Z: normalizeZero(math.Round(p.Z/gridSize) * gridSize),
	}
}

// IsCardinalAdjacent reports whether b is exactly one grid step away from a
// along a single axis.
func IsCardinalAdjacent(a, b Point, gridSize float64) bool {
	dx := math.Abs(a.X - b.X)
	dz := math.Abs(a.Z - b.Z)
	return (dx == gridSize && dz == 0) || (dx == 0 && dz == gridSize)
}

// Step returns the ground-plane delta from a to b.
func Step(a, b Point) (dx, dz float64) {
	return b.X - a.X, b.Z - a.Z
}

// Manhattan returns the ground-plane Manhattan distance between two points.
func Manhattan(a, b Point) float64 {
	return math.Abs(a.X-b.X) + math.Abs(a.Z-b.Z)
}

// WithinHalfExtent reports whether both ground axes lie in [-half, half].
func WithinHalfExtent(p Point, half float64) bool {
	return math.Abs(p.X) <= half && math.Abs(p.Z) <= half
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// normalizeZero turns negative zero into positive zero so encoded output
// never contains "-0".
func normalizeZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
