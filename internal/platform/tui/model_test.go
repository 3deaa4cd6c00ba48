package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/trackforge/internal/config"
	"github.com/vovakirdan/trackforge/internal/core"
	"github.com/vovakirdan/trackforge/internal/editor"
	"github.com/vovakirdan/trackforge/internal/mapdoc"
	"github.com/vovakirdan/trackforge/internal/storage"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var space = runes(" ")

func newTestModel(t *testing.T, opts ...Option) Model {
	t.Helper()
	cfg := config.DefaultEditorConfig()
	cfg.AutosaveInterval = 0
	sess := editor.NewSession(cfg, editor.WithSeed(1))
	opts = append([]Option{WithSize(80, 24), WithGeneratorSeed(1)}, opts...)
	return New(sess, opts...)
}

// send feeds messages through Update and returns the resulting model and
// the last command.
func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m, cmd
}

// drain runs a command and feeds every message it yields back into the
// model.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = drain(t, m, c)
		}
		return m
	}
	next, more := send(t, m, msg)
	if _, isTick := msg.(AutosaveMsg); isTick {
		return next
	}
	return drain(t, next, more)
}

func TestModelDrawsPathWithKeys(t *testing.T) {
	m := newTestModel(t)

	m, _ = send(t, m, space, runes("d"), space, runes("d"), space)

	path := m.Session().Snapshot().Path
	want := []core.Point{core.P(0, 0), core.P(4, 0), core.P(8, 0)}
	if len(path) != len(want) {
		t.Fatalf("path length = %d, want %d", len(path), len(want))
	}
	for i := range want {
		if !path[i].SameCell(want[i]) {
			t.Errorf("path[%d] = %v, want %v", i, path[i], want[i])
		}
	}
	if !m.Cursor().SameCell(core.P(8, 0)) {
		t.Errorf("cursor = %v, want (8, 0)", m.Cursor())
	}
}

func TestModelShowsRejection(t *testing.T) {
	m := newTestModel(t)

	// Place the head, jump two cells east and try again.
	m, _ = send(t, m, space, runes("d"), runes("d"), space)

	if got := m.Session().Snapshot().Path; len(got) != 1 {
		t.Fatalf("path length = %d, want 1", len(got))
	}
	if m.Status() != mapdoc.NotAdjacent.Message() {
		t.Errorf("status = %q, want %q", m.Status(), mapdoc.NotAdjacent.Message())
	}
}

func TestModelUndoRedo(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(t, m, space, runes("d"), space)

	m, _ = send(t, m, runes("u"))
	if n := len(m.Session().Snapshot().Path); n != 1 {
		t.Fatalf("after undo path length = %d, want 1", n)
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	if n := len(m.Session().Snapshot().Path); n != 2 {
		t.Fatalf("after redo path length = %d, want 2", n)
	}
	m, _ = send(t, m, runes("U"))
	if !strings.Contains(m.Status(), "Nothing to redo") {
		t.Errorf("status = %q, want nothing-to-redo message", m.Status())
	}
}

func TestModelDecorationKeys(t *testing.T) {
	m := newTestModel(t)

	m, _ = send(t, m, runes("3"))
	if m.Session().Selected() != mapdoc.DecorationCrystal {
		t.Errorf("selected = %q, want crystal", m.Session().Selected())
	}
	if m.Session().Tool() != editor.ToolDecoration {
		t.Errorf("tool = %v, want decoration", m.Session().Tool())
	}

	m, _ = send(t, m, runes("d"), space)
	decos := m.Session().Snapshot().Decorations
	if len(decos) != 1 || decos[0].Type != mapdoc.DecorationCrystal {
		t.Fatalf("decorations = %+v, want one crystal", decos)
	}
}

func TestModelToolCycle(t *testing.T) {
	m := newTestModel(t)
	tab := tea.KeyMsg{Type: tea.KeyTab}

	for _, want := range []editor.Tool{editor.ToolDecoration, editor.ToolDelete, editor.ToolPath} {
		m, _ = send(t, m, tab)
		if m.Session().Tool() != want {
			t.Errorf("tool = %v, want %v", m.Session().Tool(), want)
		}
	}
}

func TestModelCursorStaysInWorld(t *testing.T) {
	m := newTestModel(t)
	half := m.Session().Config().HalfExtent()

	for range 100 {
		m, _ = send(t, m, runes("a"))
	}
	if !core.WithinHalfExtent(m.Cursor(), half) {
		t.Errorf("cursor %v left the world", m.Cursor())
	}
}

func TestModelSave(t *testing.T) {
	ctx := context.Background()
	gw := storage.NewGateway(storage.NewMemory())
	m := newTestModel(t, WithGateway(gw))
	m, _ = send(t, m, space)

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("save returned no command")
	}
	if !m.Session().Busy() {
		t.Error("session should be busy while saving")
	}
	if r := m.Session().AppendPath(core.P(4, 0)); r != mapdoc.Busy {
		t.Errorf("edit while saving = %v, want Busy", r)
	}

	m = drain(t, m, cmd)
	if m.Session().Busy() {
		t.Error("session still busy after save completed")
	}
	if m.Session().Dirty() {
		t.Error("session still dirty after save")
	}
	slot, ok := gw.LoadSlot(ctx, mapdoc.DefaultName)
	if !ok {
		t.Fatalf("slot %q not saved", mapdoc.DefaultName)
	}
	if slot.Document.PathLen() != 1 {
		t.Errorf("saved path length = %d, want 1", slot.Document.PathLen())
	}
}

func TestModelSaveWithoutStorage(t *testing.T) {
	m := newTestModel(t)
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("save without storage should not start a command")
	}
	if m.Session().Busy() {
		t.Error("session busy without storage")
	}
	if m.Status() == "" {
		t.Error("expected a status message")
	}
}

func TestModelAutosave(t *testing.T) {
	ctx := context.Background()
	gw := storage.NewGateway(storage.NewMemory())
	m := newTestModel(t, WithGateway(gw))

	// Nothing changed yet: no save.
	m, cmd := send(t, m, AutosaveMsg{})
	m = drain(t, m, cmd)
	if _, ok := gw.LoadSlot(ctx, storage.SlotAutosave); ok {
		t.Fatal("autosave wrote an unchanged map")
	}

	m, _ = send(t, m, space)
	m, cmd = send(t, m, AutosaveMsg{})
	m = drain(t, m, cmd)
	if _, ok := gw.LoadSlot(ctx, storage.SlotAutosave); !ok {
		t.Fatal("autosave slot missing after edit")
	}
	if !m.Session().Dirty() {
		t.Error("autosave should not clear the dirty flag")
	}
}

func TestModelOpenSlot(t *testing.T) {
	ctx := context.Background()
	gw := storage.NewGateway(storage.NewMemory())

	doc := mapdoc.New("Saved", mapdoc.DefaultSettings())
	for i := range 3 {
		doc.AppendPath(core.P(float64(i*4), 0), 4)
	}
	if !gw.SaveSlot(ctx, doc, "saved") {
		t.Fatal("seed save failed")
	}

	m := newTestModel(t, WithGateway(gw))
	m, cmd := send(t, m, runes("o"))
	m = drain(t, m, cmd)
	if m.slots == nil {
		t.Fatal("slot browser not open")
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.slots != nil {
		t.Fatal("slot browser still open after choosing")
	}
	if m.Session().Name() != "Saved" {
		t.Errorf("name = %q, want Saved", m.Session().Name())
	}
	if n := m.Session().Document().PathLen(); n != 3 {
		t.Errorf("path length = %d, want 3", n)
	}
	if m.Session().CanUndo() {
		t.Error("history should be cleared after load")
	}
}

func TestModelGenerate(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(t, m, runes("g"))

	cfg := m.Session().Config().Generator
	n := m.Session().Document().PathLen()
	if n < cfg.MinLength || n > cfg.MaxLength {
		t.Errorf("generated %d tiles, want [%d, %d]", n, cfg.MinLength, cfg.MaxLength)
	}
	if !m.Session().Validate().Valid {
		t.Errorf("generated map invalid: %v", m.Session().Validate().Errors)
	}
}

func TestModelTestMapInvalid(t *testing.T) {
	m := newTestModel(t)
	m, cmd := send(t, m, space, runes("t"))
	if cmd != nil {
		t.Error("invalid map should not start a test run")
	}
	if !strings.Contains(m.Status(), "at least") {
		t.Errorf("status = %q, want length error", m.Status())
	}
}

func TestModelViewRendersMarkers(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(t, m, space, runes("d"), space, runes("d"))

	view := m.View()
	for _, want := range []string{"S", "B", mapdoc.DefaultName} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestRenderScreenPlainText(t *testing.T) {
	s := core.NewScreen(4, 2)
	s.DrawText(0, 0, "ab", "")
	s.DrawText(0, 1, "cd", "#ff0000")

	out := RenderScreen(s)
	if !strings.Contains(out, "ab") || !strings.Contains(out, "cd") {
		t.Errorf("render lost text: %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("render has %d newlines, want 1", strings.Count(out, "\n"))
	}
}

func TestMapViewRoundTrip(t *testing.T) {
	v := mapView{screen: core.NewScreen(40, 20), gridSize: 4, center: core.P(8, -4)}
	for _, p := range []core.Point{core.P(8, -4), core.P(0, 0), core.P(-12, 8)} {
		x, y, ok := v.toScreen(p)
		if !ok {
			t.Fatalf("%v not visible", p)
		}
		if got := v.toWorld(x, y); !got.SameCell(p) {
			t.Errorf("toWorld(toScreen(%v)) = %v", p, got)
		}
	}
	if _, _, ok := v.toScreen(core.P(200, 0)); ok {
		t.Error("far point should be off screen")
	}
}
