// Package editor implements the editing session: it owns one map document,
// dispatches tool input and commands against it, records history and
// notifies renderers after every accepted change.
package editor

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/trackforge/internal/codec"
	"github.com/vovakirdan/trackforge/internal/config"
	"github.com/vovakirdan/trackforge/internal/core"
	"github.com/vovakirdan/trackforge/internal/generator"
	"github.com/vovakirdan/trackforge/internal/history"
	"github.com/vovakirdan/trackforge/internal/mapdoc"
	"github.com/vovakirdan/trackforge/internal/storage"
	"github.com/vovakirdan/trackforge/internal/validate"
)

// ErrInvalidMap is returned by TestMap when validation fails.
var ErrInvalidMap = errors.New("editor: map is not valid")

// Session is a single-user editing session. It is not safe for concurrent
// use; the UI loop owns it.
type Session struct {
	cfg      config.EditorConfig
	doc      *mapdoc.Document
	hist     *history.Log
	tool     Tool
	selected mapdoc.DecorationType
	symmetry bool
	busy     bool
	dirty    bool
	rng      *rand.Rand
	rebuild  []RebuildFunc
	logger   *log.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithDocument starts the session on an existing document.
func WithDocument(doc *mapdoc.Document) Option {
	return func(s *Session) { s.doc = doc.Clone() }
}

// WithSeed seeds the rotation RNG.
func WithSeed(seed int64) Option {
	return func(s *Session) { s.rng = rand.New(rand.NewSource(seed)) }
}

// WithLogger sets the session logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithRebuild registers a rebuild listener.
func WithRebuild(fn RebuildFunc) Option {
	return func(s *Session) { s.rebuild = append(s.rebuild, fn) }
}

// NewSession creates a session with an empty document unless WithDocument
// is given.
func NewSession(cfg config.EditorConfig, opts ...Option) *Session {
	s := &Session{
		cfg:      cfg,
		hist:     history.New(cfg.MaxUndoSteps),
		selected: mapdoc.DecorationTree,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.doc == nil {
		s.doc = mapdoc.New(mapdoc.DefaultName, cfg.DefaultSettings)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// OnRebuild registers another rebuild listener and calls it once with the
// current state.
func (s *Session) OnRebuild(fn RebuildFunc) {
	s.rebuild = append(s.rebuild, fn)
	snap := s.doc.Snapshot()
	fn(snap.Path, snap.Decorations)
}

// Config returns the editor configuration.
func (s *Session) Config() config.EditorConfig {
	return s.cfg
}

// Document returns a copy of the current document.
func (s *Session) Document() *mapdoc.Document {
	return s.doc.Clone()
}

// Snapshot returns the current path and decorations.
func (s *Session) Snapshot() mapdoc.Snapshot {
	return s.doc.Snapshot()
}

// Name returns the map name.
func (s *Session) Name() string {
	return s.doc.Name()
}

// SetName renames the map. Not undoable.
func (s *Session) SetName(name string) {
	if name == "" {
		name = mapdoc.DefaultName
	}
	s.doc.SetName(name)
	s.dirty = true
}

// Settings returns the map settings.
func (s *Session) Settings() mapdoc.Settings {
	return s.doc.Settings()
}

// SetSettings replaces the map settings. Not undoable.
func (s *Session) SetSettings(settings mapdoc.Settings) {
	s.doc.SetSettings(settings)
	s.dirty = true
	s.notify()
}

// Tool returns the active tool.
func (s *Session) Tool() Tool {
	return s.tool
}

// SetTool switches the active tool.
func (s *Session) SetTool(t Tool) {
	s.tool = t
}

// Selected returns the decoration type placed by ToolDecoration.
func (s *Session) Selected() mapdoc.DecorationType {
	return s.selected
}

// Select changes the decoration type placed by ToolDecoration.
func (s *Session) Select(t mapdoc.DecorationType) {
	s.selected = t
}

// Symmetry reports whether symmetry mode is on.
func (s *Session) Symmetry() bool {
	return s.symmetry
}

// ToggleSymmetry flips symmetry mode and returns the new state.
func (s *Session) ToggleSymmetry() bool {
	s.symmetry = !s.symmetry
	s.logger.Debug("symmetry toggled", "on", s.symmetry)
	return s.symmetry
}

// Busy reports whether a storage or file operation is outstanding.
func (s *Session) Busy() bool {
	return s.busy
}

// BeginIO marks an I/O request as outstanding. It returns false if one is
// already in flight.
func (s *Session) BeginIO() bool {
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

// EndIO clears the outstanding I/O mark.
func (s *Session) EndIO() {
	s.busy = false
}

// Dirty reports whether the document changed since MarkSaved.
func (s *Session) Dirty() bool {
	return s.dirty
}

// MarkSaved clears the dirty flag.
func (s *Session) MarkSaved() {
	s.dirty = false
}

// CanUndo reports whether Undo would change anything.
func (s *Session) CanUndo() bool {
	return s.hist.CanUndo()
}

// CanRedo reports whether Redo would change anything.
func (s *Session) CanRedo() bool {
	return s.hist.CanRedo()
}

// UndoDepth returns the number of undoable edits.
func (s *Session) UndoDepth() int {
	return s.hist.Depth()
}

// snap resolves a cell according to the snap setting.
func (s *Session) snap(p core.Point) core.Point {
	if s.cfg.SnapToGrid {
		return core.Snap(p, s.cfg.GridSize)
	}
	return core.Point{X: p.X, Z: p.Z}
}

// edit runs a document mutation. On acceptance the pre-edit snapshot is
// recorded and listeners are notified; on rejection nothing changes.
func (s *Session) edit(op string, fn func() mapdoc.Rejection) mapdoc.Rejection {
	if s.busy {
		s.logger.Debug("edit rejected", "op", op, "reason", mapdoc.Busy)
		return mapdoc.Busy
	}
	before := s.doc.Snapshot()
	if r := fn(); !r.OK() {
		s.logger.Debug("edit rejected", "op", op, "reason", r)
		return r
	}
	s.hist.Record(before)
	s.dirty = true
	s.notify()
	return mapdoc.Accepted
}

func (s *Session) notify() {
	if len(s.rebuild) == 0 {
		return
	}
	snap := s.doc.Snapshot()
	for _, fn := range s.rebuild {
		fn(snap.Path, snap.Decorations)
	}
}

// Apply dispatches a tool action at a cell.
func (s *Session) Apply(in Input) mapdoc.Rejection {
	switch in.Tool {
	case ToolPath:
		return s.AppendPath(in.Cell)
	case ToolDecoration:
		t := in.Decoration
		if t == "" {
			t = s.selected
		}
		if t == "" {
			return mapdoc.NothingThere
		}
		return s.PlaceDecoration(t, in.Cell, generator.Rotation(s.rng))
	case ToolDelete:
		return s.DeleteAt(in.Cell)
	default:
		return mapdoc.NothingThere
	}
}

// AppendPath extends the path at the tail.
func (s *Session) AppendPath(cell core.Point) mapdoc.Rejection {
	cell = s.snap(cell)
	return s.edit("append", func() mapdoc.Rejection {
		return s.doc.AppendPath(cell, s.cfg.GridSize)
	})
}

// RemoveTail removes the last path cell.
func (s *Session) RemoveTail() mapdoc.Rejection {
	return s.edit("remove tail", s.doc.RemovePathTail)
}

// RemovePathAt removes the path cell at index i, which must be the tail.
func (s *Session) RemovePathAt(i int) mapdoc.Rejection {
	return s.edit("remove path", func() mapdoc.Rejection {
		return s.doc.RemovePathAt(i)
	})
}

// PlaceDecoration places a decoration with an explicit rotation, mirrored
// when symmetry mode is on.
func (s *Session) PlaceDecoration(t mapdoc.DecorationType, at core.Point, rotation float64) mapdoc.Rejection {
	t, ok := mapdoc.ParseDecorationType(string(t))
	if !ok {
		return mapdoc.UnknownDecoration
	}
	deco := mapdoc.NewDecoration(t, s.snap(at), rotation)
	return s.edit("place decoration", func() mapdoc.Rejection {
		return s.doc.PlaceDecoration(deco, s.cfg.GridSize, s.symmetry)
	})
}

// RemoveNear removes the first decoration on the point's grid cell.
func (s *Session) RemoveNear(at core.Point) mapdoc.Rejection {
	return s.edit("remove decoration", func() mapdoc.Rejection {
		return s.doc.RemoveDecorationAt(at, s.cfg.GridSize)
	})
}

// DeleteAt is the delete tool: a path cell under the point takes priority
// over decorations, and only the tail may go.
func (s *Session) DeleteAt(at core.Point) mapdoc.Rejection {
	if i := s.doc.PathIndexAt(at, s.cfg.GridSize); i >= 0 {
		return s.RemovePathAt(i)
	}
	return s.RemoveNear(at)
}

// Undo restores the previous state. It reports false when there is nothing
// to undo or I/O is outstanding.
func (s *Session) Undo() bool {
	if s.busy {
		return false
	}
	prev, ok := s.hist.Undo(s.doc.Snapshot())
	if !ok {
		return false
	}
	s.doc.Restore(prev)
	s.dirty = true
	s.notify()
	return true
}

// Redo re-applies the last undone state.
func (s *Session) Redo() bool {
	if s.busy {
		return false
	}
	next, ok := s.hist.Redo(s.doc.Snapshot())
	if !ok {
		return false
	}
	s.doc.Restore(next)
	s.dirty = true
	s.notify()
	return true
}

// Exec runs a keyboard command.
func (s *Session) Exec(cmd Command) mapdoc.Rejection {
	switch cmd {
	case CmdUndo, CmdRedo:
		if s.busy {
			return mapdoc.Busy
		}
		do := s.Undo
		if cmd == CmdRedo {
			do = s.Redo
		}
		if !do() {
			return mapdoc.NothingThere
		}
		return mapdoc.Accepted
	case CmdToggleSymmetry:
		s.ToggleSymmetry()
		return mapdoc.Accepted
	case CmdDeleteLast:
		return s.RemoveTail()
	default:
		return mapdoc.NothingThere
	}
}

// Preview reports whether the active tool could act at cell, without
// changing anything.
func (s *Session) Preview(cell core.Point) mapdoc.Rejection {
	if s.busy {
		return mapdoc.Busy
	}
	cell = s.snap(cell)
	switch s.tool {
	case ToolPath:
		return s.doc.CanAppendPath(cell, s.cfg.GridSize)
	case ToolDecoration:
		return s.doc.CanPlaceDecoration(cell, s.cfg.GridSize)
	case ToolDelete:
		if i := s.doc.PathIndexAt(cell, s.cfg.GridSize); i >= 0 {
			if i != s.doc.PathLen()-1 {
				return mapdoc.NotTail
			}
			return mapdoc.Accepted
		}
		if s.doc.DecorationIndexAt(cell, s.cfg.GridSize) >= 0 {
			return mapdoc.Accepted
		}
		return mapdoc.NothingThere
	default:
		return mapdoc.NothingThere
	}
}

// Load replaces the document, e.g. after a slot or file import completed.
// History is cleared since it belongs to the previous document.
func (s *Session) Load(doc *mapdoc.Document) mapdoc.Rejection {
	if s.busy {
		return mapdoc.Busy
	}
	s.doc = doc.Clone()
	s.hist.Clear()
	s.dirty = false
	s.notify()
	return mapdoc.Accepted
}

// Rules returns the validation rules derived from the configuration.
func (s *Session) Rules() validate.Rules {
	return validate.Rules{
		GridSize:      s.cfg.GridSize,
		WorldSize:     s.cfg.WorldSize,
		MinPathLength: s.cfg.MinPathLength,
	}
}

// Validate checks the current document.
func (s *Session) Validate() validate.Result {
	return s.Rules().Validate(s.doc)
}

// TestMap validates the map, saves it to the test slot and returns the game
// export. A failed save is logged and does not stop the test run.
func (s *Session) TestMap(ctx context.Context, gw *storage.Gateway) (codec.GameMap, validate.Result, error) {
	res := s.Validate()
	if !res.Valid {
		return codec.GameMap{}, res, ErrInvalidMap
	}
	doc := s.doc.Clone()
	if gw != nil && !gw.SaveSlot(ctx, doc, storage.SlotTestMap) {
		s.logger.Warn("could not save test map", "slot", storage.SlotTestMap)
	}
	return codec.ExportGame(doc), res, nil
}
