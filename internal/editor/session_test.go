package editor

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/vovakirdan/trackforge/internal/codec"
	"github.com/vovakirdan/trackforge/internal/config"
	"github.com/vovakirdan/trackforge/internal/core"
	"github.com/vovakirdan/trackforge/internal/mapdoc"
	"github.com/vovakirdan/trackforge/internal/storage"
)

func newSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	return NewSession(config.DefaultEditorConfig(), append([]Option{WithSeed(1)}, opts...)...)
}

// appendRow appends n cells along +X starting at x0.
func appendRow(t *testing.T, s *Session, x0 float64, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if r := s.AppendPath(core.P(x0+float64(i*4), 0)); !r.OK() {
			t.Fatalf("append %d: %v", i, r)
		}
	}
}

func TestUndoAllEditsRestoresStart(t *testing.T) {
	s := newSession(t)
	start := s.Snapshot()

	appendRow(t, s, -40, 15)
	for i := 0; i < 5; i++ {
		if r := s.PlaceDecoration(mapdoc.DecorationRock, core.P(float64(i*8), 40), 0.5); !r.OK() {
			t.Fatalf("place %d: %v", i, r)
		}
	}

	for i := 0; i < 20; i++ {
		if !s.Undo() {
			t.Fatalf("undo %d failed", i)
		}
	}
	if !s.Snapshot().Equal(start) {
		t.Errorf("state after 20 undos = %+v, expected start", s.Snapshot())
	}
	if s.Undo() {
		t.Error("21st undo should be a no-op")
	}
}

func TestUndoDepthIsBounded(t *testing.T) {
	s := newSession(t)
	appendRow(t, s, -80, 25)

	undone := 0
	for s.Undo() {
		undone++
	}
	if undone != 20 {
		t.Errorf("undid %d edits, expected 20", undone)
	}
	if n := s.Snapshot().Path; len(n) != 5 {
		t.Errorf("path length after undoing all = %d, expected the 5 oldest cells to remain", len(n))
	}
}

func TestRedoRestoresPreUndoState(t *testing.T) {
	s := newSession(t)
	appendRow(t, s, 0, 3)
	before := s.Snapshot()

	s.Undo()
	if !s.Redo() {
		t.Fatal("Redo() = false")
	}
	if !s.Snapshot().Equal(before) {
		t.Error("redo should restore the state before undo")
	}
}

func TestEditClearsRedo(t *testing.T) {
	s := newSession(t)
	appendRow(t, s, 0, 3)
	s.Undo()
	s.Undo()

	if r := s.AppendPath(core.P(0, 4)); !r.OK() {
		t.Fatalf("append: %v", r)
	}
	if s.CanRedo() || s.Redo() {
		t.Error("redo should be cleared by a new edit")
	}
	if got := s.Exec(CmdRedo); got != mapdoc.NothingThere {
		t.Errorf("Exec(redo) = %v, expected NothingThere", got)
	}
}

func TestRejectedEditsRecordNothing(t *testing.T) {
	calls := 0
	s := newSession(t, WithRebuild(func([]core.Point, []mapdoc.Decoration) { calls++ }))
	appendRow(t, s, 0, 2)
	depth, rebuilt := s.UndoDepth(), calls

	rejects := []mapdoc.Rejection{
		s.AppendPath(core.P(20, 20)),
		s.AppendPath(core.P(0, 0)),
		s.RemovePathAt(0),
		s.PlaceDecoration(mapdoc.DecorationTree, core.P(4, 0), 0),
		s.RemoveNear(core.P(60, 60)),
	}
	want := []mapdoc.Rejection{mapdoc.NotAdjacent, mapdoc.AlreadyOccupied, mapdoc.NotTail, mapdoc.OnPath, mapdoc.NothingThere}
	for i := range want {
		if rejects[i] != want[i] {
			t.Errorf("rejection %d = %v, expected %v", i, rejects[i], want[i])
		}
	}
	if s.UndoDepth() != depth {
		t.Error("rejected edits must not record history")
	}
	if calls != rebuilt {
		t.Error("rejected edits must not trigger a rebuild")
	}
}

func TestRebuildReceivesFullState(t *testing.T) {
	var gotPath []core.Point
	var gotDecos []mapdoc.Decoration
	s := newSession(t, WithRebuild(func(p []core.Point, d []mapdoc.Decoration) {
		gotPath, gotDecos = p, d
	}))

	appendRow(t, s, 0, 3)
	s.PlaceDecoration(mapdoc.DecorationCrystal, core.P(0, 20), 1)
	if len(gotPath) != 3 || len(gotDecos) != 1 {
		t.Errorf("rebuild got %d cells, %d decorations", len(gotPath), len(gotDecos))
	}

	s.Undo()
	if len(gotDecos) != 0 {
		t.Error("undo should trigger a rebuild")
	}

	late := 0
	s.OnRebuild(func(p []core.Point, _ []mapdoc.Decoration) { late = len(p) })
	if late != 3 {
		t.Errorf("late listener got %d cells on registration, expected 3", late)
	}
}

func TestSymmetricPlacementIsOneUndo(t *testing.T) {
	s := newSession(t)
	s.Exec(CmdToggleSymmetry)
	if !s.Symmetry() {
		t.Fatal("symmetry should be on")
	}

	if r := s.PlaceDecoration(mapdoc.DecorationTree, core.P(12, 8), 0.25); !r.OK() {
		t.Fatalf("place: %v", r)
	}
	decos := s.Snapshot().Decorations
	if len(decos) != 2 {
		t.Fatalf("got %d decorations, expected 2", len(decos))
	}
	if decos[1].X != -12 || decos[1].Z != 8 || decos[1].Rotation != math.Pi-0.25 {
		t.Errorf("mirror = %+v", decos[1])
	}

	s.Undo()
	if len(s.Snapshot().Decorations) != 0 {
		t.Error("one undo should remove both decorations")
	}
}

func TestSettingsUnaffectedByUndo(t *testing.T) {
	s := newSession(t)
	appendRow(t, s, 0, 2)
	settings := s.Settings()
	settings.TrackColor = "#32cd32"
	s.SetSettings(settings)
	s.SetName("Renamed")

	s.Undo()
	s.Undo()
	if s.Settings().TrackColor != "#32cd32" || s.Name() != "Renamed" {
		t.Error("undo must not touch settings or name")
	}
}

func TestBusyRejectsEdits(t *testing.T) {
	s := newSession(t)
	appendRow(t, s, 0, 2)

	if !s.BeginIO() {
		t.Fatal("BeginIO() = false")
	}
	if s.BeginIO() {
		t.Error("second BeginIO() should fail while busy")
	}
	if r := s.AppendPath(core.P(8, 0)); r != mapdoc.Busy {
		t.Errorf("AppendPath while busy = %v", r)
	}
	if s.Undo() {
		t.Error("Undo while busy should fail")
	}
	if r := s.Exec(CmdUndo); r != mapdoc.Busy {
		t.Errorf("Exec(undo) while busy = %v", r)
	}
	if r := s.Preview(core.P(8, 0)); r != mapdoc.Busy {
		t.Errorf("Preview while busy = %v", r)
	}
	if r := s.Load(mapdoc.New("x", mapdoc.DefaultSettings())); r != mapdoc.Busy {
		t.Errorf("Load while busy = %v", r)
	}

	s.EndIO()
	if r := s.AppendPath(core.P(8, 0)); !r.OK() {
		t.Errorf("AppendPath after EndIO = %v", r)
	}
}

func TestApplyDispatch(t *testing.T) {
	s := newSession(t)

	if r := s.Apply(Input{Tool: ToolPath, Cell: core.P(0.9, -1.2)}); !r.OK() {
		t.Fatalf("path input: %v", r)
	}
	if tail, _ := s.Document().Tail(); tail != core.P(0, 0) {
		t.Errorf("tail = %v, expected snapped (0,0)", tail)
	}

	s.Select(mapdoc.DecorationRock)
	if r := s.Apply(Input{Tool: ToolDecoration, Cell: core.P(8, 8)}); !r.OK() {
		t.Fatalf("decoration input: %v", r)
	}
	if r := s.Apply(Input{Tool: ToolDecoration, Cell: core.P(16, 8), Decoration: mapdoc.DecorationCrystal}); !r.OK() {
		t.Fatalf("decoration input: %v", r)
	}
	decos := s.Snapshot().Decorations
	if decos[0].Type != mapdoc.DecorationRock || decos[1].Type != mapdoc.DecorationCrystal {
		t.Errorf("types = %s, %s", decos[0].Type, decos[1].Type)
	}
	for _, d := range decos {
		if d.Rotation < 0 || d.Rotation >= 2*math.Pi {
			t.Errorf("rotation %g outside [0, 2π)", d.Rotation)
		}
	}

	if r := s.Apply(Input{Tool: ToolDelete, Cell: core.P(8, 8)}); !r.OK() {
		t.Errorf("delete decoration: %v", r)
	}
	if r := s.Apply(Input{Tool: ToolDelete, Cell: core.P(0, 0)}); !r.OK() {
		t.Errorf("delete tail: %v", r)
	}
	if s.Document().PathLen() != 0 || len(s.Snapshot().Decorations) != 1 {
		t.Errorf("unexpected state after deletes: %+v", s.Snapshot())
	}
}

func TestUnknownDecorationRejected(t *testing.T) {
	s := newSession(t)

	if r := s.Apply(Input{Tool: ToolDecoration, Cell: core.P(8, 8), Decoration: "lamp"}); r != mapdoc.UnknownDecoration {
		t.Fatalf("place lamp = %v, expected UnknownDecoration", r)
	}
	if len(s.Snapshot().Decorations) != 0 || s.CanUndo() {
		t.Errorf("rejected placement changed state: %+v", s.Snapshot())
	}

	if r := s.Apply(Input{Tool: ToolDecoration, Cell: core.P(8, 8), Decoration: " Tree "}); !r.OK() {
		t.Fatalf("place tree: %v", r)
	}
	if got := s.Snapshot().Decorations[0].Type; got != mapdoc.DecorationTree {
		t.Errorf("stored type %q, expected %q", got, mapdoc.DecorationTree)
	}

	code, err := codec.EncodeShareCode(s.Document())
	if err != nil {
		t.Fatal(err)
	}
	back, err := codec.DecodeShareCode(code)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(s.Document()) {
		t.Errorf("share code round trip changed the map: %+v", back.Snapshot())
	}
}

func TestRotationIsSeeded(t *testing.T) {
	a := newSession(t)
	b := newSession(t)
	a.Apply(Input{Tool: ToolDecoration, Cell: core.P(8, 8)})
	b.Apply(Input{Tool: ToolDecoration, Cell: core.P(8, 8)})
	if a.Snapshot().Decorations[0].Rotation != b.Snapshot().Decorations[0].Rotation {
		t.Error("same seed should give the same rotation")
	}
}

func TestDeleteAtPathTakesPriority(t *testing.T) {
	s := newSession(t)
	s.PlaceDecoration(mapdoc.DecorationTree, core.P(4, 0), 0)
	appendRow(t, s, 0, 2)

	if r := s.DeleteAt(core.P(4, 0)); !r.OK() {
		t.Fatalf("DeleteAt: %v", r)
	}
	if s.Document().PathLen() != 1 || len(s.Snapshot().Decorations) != 1 {
		t.Error("delete should remove the path tail, not the decoration under it")
	}
	if r := s.DeleteAt(core.P(0, 0)); !r.OK() {
		t.Fatalf("DeleteAt: %v", r)
	}
	if r := s.DeleteAt(core.P(4, 0)); !r.OK() || len(s.Snapshot().Decorations) != 0 {
		t.Errorf("second DeleteAt should remove the decoration: %v", r)
	}
}

func TestExecDeleteLast(t *testing.T) {
	s := newSession(t)
	if r := s.Exec(CmdDeleteLast); r != mapdoc.EmptyPath {
		t.Errorf("deleteLast on empty = %v", r)
	}
	appendRow(t, s, 0, 2)
	if r := s.Exec(CmdDeleteLast); !r.OK() || s.Document().PathLen() != 1 {
		t.Errorf("deleteLast = %v, len %d", r, s.Document().PathLen())
	}
}

func TestPreview(t *testing.T) {
	s := newSession(t)
	appendRow(t, s, 0, 2)
	s.PlaceDecoration(mapdoc.DecorationTree, core.P(20, 20), 0)

	tests := []struct {
		tool Tool
		cell core.Point
		want mapdoc.Rejection
	}{
		{ToolPath, core.P(8, 0), mapdoc.Accepted},
		{ToolPath, core.P(8.7, 1), mapdoc.Accepted},
		{ToolPath, core.P(12, 0), mapdoc.NotAdjacent},
		{ToolPath, core.P(0, 0), mapdoc.AlreadyOccupied},
		{ToolDecoration, core.P(4, 0), mapdoc.OnPath},
		{ToolDecoration, core.P(4, 12), mapdoc.Accepted},
		{ToolDelete, core.P(0, 0), mapdoc.NotTail},
		{ToolDelete, core.P(4, 0), mapdoc.Accepted},
		{ToolDelete, core.P(20, 20), mapdoc.Accepted},
		{ToolDelete, core.P(40, 40), mapdoc.NothingThere},
	}
	depth := s.UndoDepth()
	for _, tt := range tests {
		s.SetTool(tt.tool)
		if got := s.Preview(tt.cell); got != tt.want {
			t.Errorf("Preview(%s, %v) = %v, expected %v", tt.tool, tt.cell, got, tt.want)
		}
	}
	if s.UndoDepth() != depth || s.Document().PathLen() != 2 {
		t.Error("Preview must not change anything")
	}
}

func TestLoadClearsHistory(t *testing.T) {
	s := newSession(t)
	appendRow(t, s, 0, 3)

	loaded := mapdoc.FromParts("Loaded", []core.Point{core.P(40, 40)}, nil, mapdoc.DefaultSettings())
	if r := s.Load(loaded); !r.OK() {
		t.Fatalf("Load: %v", r)
	}
	if s.CanUndo() || s.Dirty() {
		t.Error("Load should clear history and the dirty flag")
	}
	if s.Name() != "Loaded" {
		t.Errorf("Name() = %q", s.Name())
	}

	loaded.AppendPath(core.P(44, 40), 4)
	if s.Document().PathLen() != 1 {
		t.Error("session must own its copy of the loaded document")
	}
}

func TestTestMap(t *testing.T) {
	ctx := context.Background()
	gw := storage.NewGateway(storage.NewMemory())
	s := newSession(t)
	appendRow(t, s, 0, 3)

	_, res, err := s.TestMap(ctx, gw)
	if !errors.Is(err, ErrInvalidMap) || res.Valid {
		t.Fatalf("TestMap on short map: err %v, result %+v", err, res)
	}
	if _, ok := gw.LoadSlot(ctx, storage.SlotTestMap); ok {
		t.Error("invalid map must not be saved")
	}

	appendRow(t, s, 12, 7)
	game, res, err := s.TestMap(ctx, gw)
	if err != nil || !res.Valid {
		t.Fatalf("TestMap: err %v, errors %v", err, res.Errors)
	}
	if game.Track != "custom" || len(game.Path) != 10 {
		t.Errorf("export = %+v", game)
	}
	slot, ok := gw.LoadSlot(ctx, storage.SlotTestMap)
	if !ok || slot.Document.PathLen() != 10 {
		t.Error("valid map should be saved to the test slot")
	}
}

func TestToolCycle(t *testing.T) {
	if ToolPath.Next() != ToolDecoration || ToolDelete.Next() != ToolPath {
		t.Error("tool cycling order is wrong")
	}
	if ToolDelete.String() != "delete" || CmdToggleSymmetry.String() != "toggleSymmetry" {
		t.Error("unexpected names")
	}
}
