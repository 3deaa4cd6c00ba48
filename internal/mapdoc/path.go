package mapdoc

import "github.com/vovakirdan/trackforge/internal/core"

// PathState classifies a path by its cell count.
type PathState uint8

const (
	PathEmpty PathState = iota
	PathSingle
	PathChain
)

// String returns the name of the state.
func (s PathState) String() string {
	switch s {
	case PathEmpty:
		return "Empty"
	case PathSingle:
		return "Single"
	case PathChain:
		return "Chain"
	default:
		return "Unknown"
	}
}

// Path is the ordered track from spawn (first cell) to base (last cell).
//
// The snake rule is the whole mutation surface: cells are only appended at
// the tail and only removed from the tail. There is no insert and no
// arbitrary delete, so a path built through Append is always free of
// duplicates and every consecutive pair is one grid step apart.
type Path struct {
	cells []core.Point
}

// PathFrom builds a path from already-ordered cells without checking them.
// Used when decoding documents from external sources; the validator is the
// place such paths get checked.
func PathFrom(cells []core.Point) Path {
	out := make([]core.Point, len(cells))
	copy(out, cells)
	return Path{cells: out}
}

// Len returns the number of cells.
func (p Path) Len() int {
	return len(p.cells)
}

// State returns the Empty/Single/Chain classification.
func (p Path) State() PathState {
	switch len(p.cells) {
	case 0:
		return PathEmpty
	case 1:
		return PathSingle
	default:
		return PathChain
	}
}

// At returns the cell at index i. It panics if i is out of range.
func (p Path) At(i int) core.Point {
	return p.cells[i]
}

// Cells returns a copy of the cells in traversal order.
func (p Path) Cells() []core.Point {
	out := make([]core.Point, len(p.cells))
	copy(out, p.cells)
	return out
}

// Tail returns the last appended cell, which is where the next cell must
// connect.
func (p Path) Tail() (core.Point, bool) {
	if len(p.cells) == 0 {
		return core.Point{}, false
	}
	return p.cells[len(p.cells)-1], true
}

// First returns the spawn end of the path.
func (p Path) First() (core.Point, bool) {
	if len(p.cells) == 0 {
		return core.Point{}, false
	}
	return p.cells[0], true
}

// Contains reports whether the cell is part of the path.
func (p Path) Contains(cell core.Point) bool {
	return p.IndexOf(cell) >= 0
}

// IndexOf returns the index of the cell in the path, or -1.
func (p Path) IndexOf(cell core.Point) int {
	for i, c := range p.cells {
		if c.SameCell(cell) {
			return i
		}
	}
	return -1
}

// CanAppend reports whether Append would accept the cell, without mutating.
func (p Path) CanAppend(cell core.Point, gridSize float64) Rejection {
	tail, ok := p.Tail()
	if !ok {
		return Accepted
	}
	if !core.IsCardinalAdjacent(tail, cell, gridSize) {
		return NotAdjacent
	}
	if p.Contains(cell) {
		return AlreadyOccupied
	}
	return Accepted
}

// Append adds the cell as the new tail if the snake rule allows it.
func (p *Path) Append(cell core.Point, gridSize float64) Rejection {
	if r := p.CanAppend(cell, gridSize); r != Accepted {
		return r
	}
	p.cells = append(p.cells, core.Point{X: cell.X, Z: cell.Z})
	return Accepted
}

// RemoveTail drops the last cell.
func (p *Path) RemoveTail() Rejection {
	if len(p.cells) == 0 {
		return EmptyPath
	}
	p.cells = p.cells[:len(p.cells)-1]
	return Accepted
}

// RemoveAt removes the cell at index i, which must be the tail.
func (p *Path) RemoveAt(i int) Rejection {
	if len(p.cells) == 0 {
		return EmptyPath
	}
	if i != len(p.cells)-1 {
		return NotTail
	}
	return p.RemoveTail()
}

// Clone returns an independent copy.
func (p Path) Clone() Path {
	return PathFrom(p.cells)
}

// Equal reports whether both paths visit the same cells in the same order.
func (p Path) Equal(other Path) bool {
	if len(p.cells) != len(other.cells) {
		return false
	}
	for i := range p.cells {
		if p.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}
