// Package mapdoc holds the map document edited by a session: the snake path,
// the decoration list and the visual settings, together with the rules every
// edit has to satisfy.
//
// The document is owned by exactly one editor session. Mutations validate
// against current state and either apply in full or return a Rejection and
// leave the document untouched.
package mapdoc

import "github.com/vovakirdan/trackforge/internal/core"

// Document is a single map: name, path, decorations and settings.
type Document struct {
	name        string
	path        Path
	decorations []Decoration
	settings    Settings
}

// New creates an empty document with the given name and settings.
func New(name string, settings Settings) *Document {
	if name == "" {
		name = DefaultName
	}
	return &Document{name: name, settings: settings}
}

// FromParts assembles a document from decoded parts without applying any
// edit rules. Callers loading untrusted data run the validator afterwards.
func FromParts(name string, path []core.Point, decorations []Decoration, settings Settings) *Document {
	return &Document{
		name:        name,
		path:        PathFrom(path),
		decorations: cloneDecorations(decorations),
		settings:    settings,
	}
}

// Name returns the map name.
func (d *Document) Name() string {
	return d.name
}

// SetName renames the map. Not versioned.
func (d *Document) SetName(name string) {
	d.name = name
}

// Settings returns the visual settings.
func (d *Document) Settings() Settings {
	return d.settings
}

// SetSettings replaces the visual settings. Not versioned.
func (d *Document) SetSettings(s Settings) {
	d.settings = s
}

// Path returns a copy of the path.
func (d *Document) Path() Path {
	return d.path.Clone()
}

// PathLen returns the number of path cells.
func (d *Document) PathLen() int {
	return d.path.Len()
}

// Tail returns the current path tail.
func (d *Document) Tail() (core.Point, bool) {
	return d.path.Tail()
}

// Spawn returns the enemy spawn marker position (first path cell).
func (d *Document) Spawn() (core.Point, bool) {
	return d.path.First()
}

// Base returns the player base marker position (last path cell).
func (d *Document) Base() (core.Point, bool) {
	return d.path.Tail()
}

// Decorations returns a copy of the decoration list in insertion order.
func (d *Document) Decorations() []Decoration {
	out := make([]Decoration, len(d.decorations))
	copy(out, d.decorations)
	return out
}

// CanAppendPath is the dry-run form of AppendPath.
func (d *Document) CanAppendPath(cell core.Point, gridSize float64) Rejection {
	return d.path.CanAppend(cell, gridSize)
}

// AppendPath extends the path at the tail.
func (d *Document) AppendPath(cell core.Point, gridSize float64) Rejection {
	return d.path.Append(cell, gridSize)
}

// RemovePathTail removes the last path cell.
func (d *Document) RemovePathTail() Rejection {
	return d.path.RemoveTail()
}

// RemovePathAt removes the path cell at index i, which must be the tail.
func (d *Document) RemovePathAt(i int) Rejection {
	return d.path.RemoveAt(i)
}

// PathIndexAt returns the index of the path cell at the given point's grid
// position, or -1.
func (d *Document) PathIndexAt(at core.Point, gridSize float64) int {
	return d.path.IndexOf(core.Snap(at, gridSize))
}

// CanPlaceDecoration reports whether a decoration may be placed at the point.
func (d *Document) CanPlaceDecoration(at core.Point, gridSize float64) Rejection {
	if d.path.Contains(core.Snap(at, gridSize)) {
		return OnPath
	}
	return Accepted
}

// PlaceDecoration inserts a decoration unless its cell is on the path or
// its type is not a placeable one.
// Decorations may overlap each other. When symmetric is set the mirrored
// copy is inserted in the same edit; only the primary is checked against
// the path. The check happens here, once: extending the path through a
// decorated cell later is allowed.
func (d *Document) PlaceDecoration(deco Decoration, gridSize float64, symmetric bool) Rejection {
	if !deco.Type.Valid() {
		return UnknownDecoration
	}
	if r := d.CanPlaceDecoration(deco.Point, gridSize); r != Accepted {
		return r
	}
	d.decorations = append(d.decorations, deco)
	if symmetric {
		d.decorations = append(d.decorations, deco.Mirrored())
	}
	return Accepted
}

// DecorationIndexAt returns the index of the first decoration, in insertion
// order, whose grid cell matches the point's grid cell, or -1.
func (d *Document) DecorationIndexAt(at core.Point, gridSize float64) int {
	target := core.Snap(at, gridSize)
	for i, deco := range d.decorations {
		if deco.Cell(gridSize).SameCell(target) {
			return i
		}
	}
	return -1
}

// RemoveDecorationAt removes the first decoration on the point's grid cell.
func (d *Document) RemoveDecorationAt(at core.Point, gridSize float64) Rejection {
	i := d.DecorationIndexAt(at, gridSize)
	if i < 0 {
		return NothingThere
	}
	d.decorations = append(d.decorations[:i], d.decorations[i+1:]...)
	return Accepted
}

// Snapshot returns a deep copy of the path and decorations.
func (d *Document) Snapshot() Snapshot {
	return Snapshot{
		Path:        d.path.Cells(),
		Decorations: d.Decorations(),
	}
}

// Restore replaces the path and decorations with a copy of the snapshot.
// Name and settings are left alone.
func (d *Document) Restore(s Snapshot) {
	d.path = PathFrom(s.Path)
	d.decorations = cloneDecorations(s.Decorations)
}

// Clone returns an independent copy of the whole document.
func (d *Document) Clone() *Document {
	return &Document{
		name:        d.name,
		path:        d.path.Clone(),
		decorations: cloneDecorations(d.decorations),
		settings:    d.settings,
	}
}

// Equal reports structural, field-for-field equality.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.name != other.name || d.settings != other.settings {
		return false
	}
	if !d.path.Equal(other.path) || len(d.decorations) != len(other.decorations) {
		return false
	}
	for i := range d.decorations {
		if d.decorations[i] != other.decorations[i] {
			return false
		}
	}
	return true
}
