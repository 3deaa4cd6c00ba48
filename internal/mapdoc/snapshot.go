package mapdoc

import "github.com/vovakirdan/trackforge/internal/core"

// Snapshot is a deep copy of the versioned part of a document: the path and
// the decorations. Settings and name are never part of a snapshot.
type Snapshot struct {
	Path        []core.Point
	Decorations []Decoration
}

// Clone returns an independent copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Path:        clonePoints(s.Path),
		Decorations: cloneDecorations(s.Decorations),
	}
}

// Equal reports whether two snapshots hold the same path and decorations.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s.Path) != len(other.Path) || len(s.Decorations) != len(other.Decorations) {
		return false
	}
	for i := range s.Path {
		if s.Path[i] != other.Path[i] {
			return false
		}
	}
	for i := range s.Decorations {
		if s.Decorations[i] != other.Decorations[i] {
			return false
		}
	}
	return true
}

func clonePoints(in []core.Point) []core.Point {
	if in == nil {
		return nil
	}
	out := make([]core.Point, len(in))
	copy(out, in)
	return out
}

func cloneDecorations(in []Decoration) []Decoration {
	if in == nil {
		return nil
	}
	out := make([]Decoration, len(in))
	copy(out, in)
	return out
}
