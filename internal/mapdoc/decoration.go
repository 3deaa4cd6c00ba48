package mapdoc

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/trackforge/internal/core"
)

// DecorationType names the kind of scenery object.
type DecorationType string

const (
	DecorationTree    DecorationType = "tree"
	DecorationRock    DecorationType = "rock"
	DecorationCrystal DecorationType = "crystal"
	DecorationGeneric DecorationType = "generic"
)

// DecorationTypes returns all placeable decoration types in menu order.
func DecorationTypes() []DecorationType {
	return []DecorationType{DecorationTree, DecorationRock, DecorationCrystal, DecorationGeneric}
}

// ParseDecorationType converts a string to a DecorationType.
// Unknown names map to DecorationGeneric and false, matching how the game
// renders anything it does not recognize as a plain box.
func ParseDecorationType(s string) (DecorationType, bool) {
	switch DecorationType(strings.ToLower(strings.TrimSpace(s))) {
	case DecorationTree:
		return DecorationTree, true
	case DecorationRock:
		return DecorationRock, true
	case DecorationCrystal:
		return DecorationCrystal, true
	case DecorationGeneric:
		return DecorationGeneric, true
	default:
		return DecorationGeneric, false
	}
}

// Valid reports whether t is one of the placeable decoration types.
func (t DecorationType) Valid() bool {
	switch t {
	case DecorationTree, DecorationRock, DecorationCrystal, DecorationGeneric:
		return true
	}
	return false
}

// Glyph returns the character used for the decoration in text views.
func (t DecorationType) Glyph() rune {
	switch t {
	case DecorationTree:
		return '♣'
	case DecorationRock:
		return '●'
	case DecorationCrystal:
		return '◆'
	default:
		return '■'
	}
}

// Decoration is a freely placed scenery object. Its position does not have
// to be grid aligned.
type Decoration struct {
	Type       DecorationType `json:"type" yaml:"type"`
	core.Point `yaml:",inline"`
	Rotation   float64 `json:"rotation" yaml:"rotation"`
}

// NewDecoration creates a ground-level decoration.
func NewDecoration(t DecorationType, at core.Point, rotation float64) Decoration {
	return Decoration{Type: t, Point: core.Point{X: at.X, Z: at.Z}, Rotation: rotation}
}

// String formats the decoration for logs.
func (d Decoration) String() string {
	return fmt.Sprintf("%s@%s r=%.3f", d.Type, d.Point, d.Rotation)
}

// Cell returns the grid cell the decoration occupies.
func (d Decoration) Cell(gridSize float64) core.Point {
	return core.Snap(d.Point, gridSize)
}

// Mirrored returns the copy placed by symmetry mode: X is negated and the
// rotation becomes π − r. Only the X axis is mirrored.
func (d Decoration) Mirrored() Decoration {
	m := d
	m.Point = d.Point.Mirror()
	m.Rotation = math.Pi - d.Rotation
	return m
}
