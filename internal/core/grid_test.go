package core

import (
	"math"
	"testing"
)

func TestSnap(t *testing.T) {
	tests := []struct {
		name     string
		in       Point
		gridSize float64
		expected Point
	}{
		{"already aligned", P(8, -4), 4, P(8, -4)},
		{"rounds down", P(5.9, 1.9), 4, P(4, 0)},
		{"rounds up", P(6.1, 2.1), 4, P(8, 4)},
		{"half rounds away from zero", P(2, -2), 4, P(4, -4)},
		{"negative small becomes positive zero", P(-0.4, -1), 4, P(0, 0)},
		{"drops height", Point{X: 1, Y: 7, Z: 1}, 4, P(0, 0)},
		{"zero grid leaves point", P(1.5, 2.5), 0, P(1.5, 2.5)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Snap(tc.in, tc.gridSize)
			if got != tc.expected {
				t.Errorf("Snap(%v, %g) = %+v, expected %+v", tc.in, tc.gridSize, got, tc.expected)
			}
			if (got.X == 0 && math.Signbit(got.X)) || (got.Z == 0 && math.Signbit(got.Z)) {
				t.Errorf("Snap(%v) produced negative zero", tc.in)
			}
		})
	}
}

func TestSnapIsIdempotent(t *testing.T) {
	for _, p := range []Point{P(3.3, -7.7), P(-13, 22), P(0.1, 0.1)} {
		once := Snap(p, 4)
		twice := Snap(once, 4)
		if once != twice {
			t.Errorf("Snap not idempotent for %v: %v then %v", p, once, twice)
		}
	}
}

func TestIsCardinalAdjacent(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Point
		expected bool
	}{
		{"right", P(0, 0), P(4, 0), true},
		{"left", P(0, 0), P(-4, 0), true},
		{"forward", P(0, 0), P(0, 4), true},
		{"back", P(0, 0), P(0, -4), true},
		{"diagonal", P(0, 0), P(4, 4), false},
		{"two steps", P(0, 0), P(8, 0), false},
		{"same cell", P(0, 0), P(0, 0), false},
		{"partial step", P(0, 0), P(2, 0), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsCardinalAdjacent(tc.a, tc.b, 4); got != tc.expected {
				t.Errorf("IsCardinalAdjacent(%v, %v) = %v, expected %v", tc.a, tc.b, got, tc.expected)
			}
			// Adjacency is symmetric
			if got := IsCardinalAdjacent(tc.b, tc.a, 4); got != tc.expected {
				t.Errorf("IsCardinalAdjacent reversed = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestPointMirrorAndSameCell(t *testing.T) {
	p := Point{X: 12, Y: 0, Z: -8}
	m := p.Mirror()
	if m.X != -12 || m.Z != -8 {
		t.Errorf("Mirror() = %+v", m)
	}
	if zero := P(0, 3).Mirror(); math.Signbit(zero.X) {
		t.Error("Mirror() of x=0 should not produce negative zero")
	}
	if !p.SameCell(Point{X: 12, Y: 5, Z: -8}) {
		t.Error("SameCell should ignore Y")
	}
	if p.SameCell(m) {
		t.Error("SameCell should compare X")
	}
}

func TestWithinHalfExtent(t *testing.T) {
	if !WithinHalfExtent(P(100, -100), 100) {
		t.Error("edge of extent should be inside")
	}
	if WithinHalfExtent(P(104, 0), 100) {
		t.Error("beyond extent should be outside")
	}
}

func TestHexColor(t *testing.T) {
	tests := []struct {
		in       HexColor
		expected uint32
		ok       bool
	}{
		{"#1e272e", 0x1e272e, true},
		{"0xFF00ff", 0xff00ff, true},
		{"808080", 0x808080, true},
		{"#fff", 0, false},
		{"#zzzzzz", 0, false},
	}
	for _, tc := range tests {
		got, err := tc.in.ParseHex()
		if (err == nil) != tc.ok {
			t.Errorf("ParseHex(%q) err = %v, expected ok=%v", tc.in, err, tc.ok)
			continue
		}
		if got != tc.expected {
			t.Errorf("ParseHex(%q) = %#x, expected %#x", tc.in, got, tc.expected)
		}
	}

	if HexFromInt(0x0a0a1a) != "#0a0a1a" {
		t.Errorf("HexFromInt = %q", HexFromInt(0x0a0a1a))
	}
}
