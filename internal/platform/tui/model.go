package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/trackforge/internal/codec"
	"github.com/vovakirdan/trackforge/internal/core"
	"github.com/vovakirdan/trackforge/internal/editor"
	"github.com/vovakirdan/trackforge/internal/generator"
	"github.com/vovakirdan/trackforge/internal/mapdoc"
	"github.com/vovakirdan/trackforge/internal/storage"
	"github.com/vovakirdan/trackforge/internal/validate"
)

// Completion messages for async storage commands.
type (
	savedMsg struct {
		slot     string
		ok       bool
		autosave bool
	}
	exportedMsg struct {
		path string
		err  error
	}
	testedMsg struct {
		game codec.GameMap
		res  validate.Result
		err  error
	}
	slotsListedMsg struct {
		slots []storage.Slot
		err   error
	}
	slotDeletedMsg struct {
		slot string
		ok   bool
	}
)

// Option configures a Model.
type Option func(*Model)

// WithGateway enables slot storage and file export.
func WithGateway(gw *storage.Gateway) Option {
	return func(m *Model) { m.gw = gw }
}

// WithModelLogger sets the logger for UI events.
func WithModelLogger(l *log.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithExportDir sets the directory exported files are written to.
func WithExportDir(dir string) Option {
	return func(m *Model) { m.exportDir = dir }
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(m *Model) {
		m.width = width
		m.height = height
	}
}

// WithTestHook is called with the document after every successful test run.
func WithTestHook(fn func(*mapdoc.Document)) Option {
	return func(m *Model) { m.onTest = fn }
}

// WithGeneratorSeed seeds the random map generator.
func WithGeneratorSeed(seed int64) Option {
	return func(m *Model) { m.rng = rand.New(rand.NewSource(seed)) }
}

// Model is the Bubble Tea model for the map editor. It owns the cursor and
// the view; all editing goes through the session.
type Model struct {
	ctx       context.Context
	sess      *editor.Session
	gw        *storage.Gateway
	logger    *log.Logger
	keys      EditorKeyMap
	help      help.Model
	screen    *core.Screen
	cursor    core.Point
	width     int
	height    int
	status    string
	statusErr bool
	exportDir string
	rng       *rand.Rand
	slots     *SlotsModel
	onTest    func(*mapdoc.Document)
	// unsynced is set by every accepted change and cleared by autosave.
	unsynced bool
	quitting bool
}

// New creates an editor model around a session.
func New(sess *editor.Session, opts ...Option) Model {
	m := Model{
		ctx:       context.Background(),
		sess:      sess,
		logger:    log.New(io.Discard),
		keys:      DefaultEditorKeyMap(),
		help:      help.New(),
		width:     80,
		height:    24,
		exportDir: ".",
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if tail, ok := sess.Document().Tail(); ok {
		m.cursor = tail
	}
	m.screen = core.NewScreen(m.width, m.mapHeight())
	m.help.Width = m.width
	return m
}

// Session returns the underlying editing session.
func (m Model) Session() *editor.Session {
	return m.sess
}

// Cursor returns the world cell under the cursor.
func (m Model) Cursor() core.Point {
	return m.cursor
}

// Status returns the current status line text.
func (m Model) Status() string {
	return m.status
}

// IsQuitting returns true if the user requested to quit.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Init schedules the first autosave.
func (m Model) Init() tea.Cmd {
	return autosaveCmd(m.sess.Config().AutosaveInterval)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.slots != nil {
		return m.updateSlots(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case AutosaveMsg:
		return m.handleAutosave()
	case savedMsg:
		return m.handleSaved(msg), nil
	case exportedMsg:
		m.sess.EndIO()
		if msg.err != nil {
			m.setError("Export failed: " + msg.err.Error())
		} else {
			m.setStatus("Exported to " + msg.path)
		}
		return m, nil
	case testedMsg:
		return m.handleTested(msg), nil
	case slotsListedMsg:
		m.sess.EndIO()
		if msg.err != nil {
			m.setError("Could not list slots: " + msg.err.Error())
			return m, nil
		}
		sm := NewSlotsModel(msg.slots, m.width, m.height)
		m.slots = &sm
		return m, nil
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.screen.Resize(width, m.mapHeight())
	if m.slots != nil {
		m.slots.resize(width, height)
	}
}

// mapHeight is the number of rows left for the map view after the header,
// status line and help bar.
func (m Model) mapHeight() int {
	helpRows := 1
	if m.help.ShowAll {
		helpRows = len(m.keys.FullHelp()[0])
	}
	return max(m.height-2-helpRows, 1)
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

// reject reports an edit outcome on the status line.
func (m *Model) reject(r mapdoc.Rejection) {
	if r.OK() {
		m.unsynced = true
		m.setStatus("")
		return
	}
	m.setError(r.Message())
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	grid := m.sess.Config().GridSize

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(0, -grid)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(0, grid)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-grid, 0)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(grid, 0)
	case key.Matches(msg, m.keys.Apply):
		m.apply()
	case key.Matches(msg, m.keys.NextTool):
		m.sess.SetTool(m.sess.Tool().Next())
		m.setStatus("Tool: " + m.sess.Tool().String())
	case key.Matches(msg, m.keys.Undo):
		m.exec(editor.CmdUndo)
	case key.Matches(msg, m.keys.Redo):
		m.exec(editor.CmdRedo)
	case key.Matches(msg, m.keys.Symmetry):
		m.sess.ToggleSymmetry()
		m.setStatus(fmt.Sprintf("Symmetry: %s", onOff(m.sess.Symmetry())))
	case key.Matches(msg, m.keys.DeleteTip):
		m.exec(editor.CmdDeleteLast)
	case key.Matches(msg, m.keys.Save):
		return m, m.save(m.sess.Name(), false)
	case key.Matches(msg, m.keys.Slots):
		return m, m.listSlots()
	case key.Matches(msg, m.keys.TestMap):
		return m, m.testMap()
	case key.Matches(msg, m.keys.Generate):
		m.generate()
	case key.Matches(msg, m.keys.Export):
		return m, m.export()
	case key.Matches(msg, m.keys.Share):
		m.share()
	case key.Matches(msg, m.keys.Validate):
		m.showValidation(m.sess.Validate())
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.screen.Resize(m.width, m.mapHeight())
	default:
		if t, ok := m.keys.decorationFor(msg); ok {
			m.sess.Select(t)
			m.sess.SetTool(editor.ToolDecoration)
			m.setStatus("Decoration: " + string(t))
		}
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	y := msg.Y - 1
	if y < 0 || y >= m.screen.Height() {
		return m, nil
	}
	cell := m.view().toWorld(msg.X, y)
	if !core.WithinHalfExtent(cell, m.sess.Config().HalfExtent()) {
		return m, nil
	}
	m.cursor = cell
	m.apply()
	return m, nil
}

// moveCursor steps the cursor, staying inside the world.
func (m *Model) moveCursor(dx, dz float64) {
	next := core.P(m.cursor.X+dx, m.cursor.Z+dz)
	if core.WithinHalfExtent(next, m.sess.Config().HalfExtent()) {
		m.cursor = next
	}
}

func (m *Model) apply() {
	m.reject(m.sess.Apply(editor.Input{Tool: m.sess.Tool(), Cell: m.cursor}))
}

func (m *Model) exec(cmd editor.Command) {
	r := m.sess.Exec(cmd)
	if cmd == editor.CmdUndo || cmd == editor.CmdRedo {
		if r == mapdoc.NothingThere {
			m.setError("Nothing to " + cmd.String())
			return
		}
	}
	m.reject(r)
}

// save writes the document to a slot in the background.
func (m *Model) save(slot string, autosave bool) tea.Cmd {
	if m.gw == nil {
		m.setError("No storage configured")
		return nil
	}
	if !m.sess.BeginIO() {
		m.setError(mapdoc.Busy.Message())
		return nil
	}
	doc := m.sess.Document()
	ctx, gw := m.ctx, m.gw
	if !autosave {
		m.setStatus("Saving...")
	}
	return func() tea.Msg {
		return savedMsg{slot: slot, ok: gw.SaveSlot(ctx, doc, slot), autosave: autosave}
	}
}

func (m Model) handleSaved(msg savedMsg) Model {
	m.sess.EndIO()
	switch {
	case !msg.ok:
		m.setError(fmt.Sprintf("Could not save %q", msg.slot))
	case msg.autosave:
		m.unsynced = false
		m.logger.Debug("autosaved", "slot", msg.slot)
	default:
		m.unsynced = false
		m.sess.MarkSaved()
		m.setStatus(fmt.Sprintf("Saved %q", msg.slot))
	}
	return m
}

func (m Model) handleAutosave() (tea.Model, tea.Cmd) {
	next := autosaveCmd(m.sess.Config().AutosaveInterval)
	if m.gw == nil || !m.unsynced || m.sess.Busy() {
		return m, next
	}
	return m, tea.Batch(next, m.save(storage.SlotAutosave, true))
}

func (m *Model) export() tea.Cmd {
	if m.gw == nil {
		m.setError("No storage configured")
		return nil
	}
	if !m.sess.BeginIO() {
		m.setError(mapdoc.Busy.Message())
		return nil
	}
	doc := m.sess.Document()
	ctx, gw, dir := m.ctx, m.gw, m.exportDir
	return func() tea.Msg {
		path, err := gw.ExportToFile(ctx, doc, dir)
		return exportedMsg{path: path, err: err}
	}
}

// testMap runs the test flow. The session is busy while the command runs,
// so the document cannot change under it.
func (m *Model) testMap() tea.Cmd {
	if res := m.sess.Validate(); !res.Valid {
		m.showValidation(res)
		return nil
	}
	if !m.sess.BeginIO() {
		m.setError(mapdoc.Busy.Message())
		return nil
	}
	sess, ctx, gw := m.sess, m.ctx, m.gw
	return func() tea.Msg {
		game, res, err := sess.TestMap(ctx, gw)
		return testedMsg{game: game, res: res, err: err}
	}
}

func (m Model) handleTested(msg testedMsg) Model {
	m.sess.EndIO()
	if errors.Is(msg.err, editor.ErrInvalidMap) {
		m.showValidation(msg.res)
		return m
	}
	if msg.err != nil {
		m.setError("Test failed: " + msg.err.Error())
		return m
	}
	if m.onTest != nil {
		m.onTest(m.sess.Document())
	}
	m.setStatus(fmt.Sprintf("Map %q ready: %d tiles, %d decorations",
		msg.game.Name, len(msg.game.Path), len(msg.game.CustomSettings.Decorations)))
	return m
}

func (m *Model) showValidation(res validate.Result) {
	if res.Valid {
		m.setStatus("Map is valid")
		return
	}
	m.setError(strings.Join(res.Errors, "; "))
}

func (m *Model) generate() {
	cfg := m.sess.Config()
	doc, err := generator.New(cfg.Generator, cfg.GridSize, m.rng.Int63()).Document(m.sess.Name(), m.sess.Settings())
	if err != nil {
		m.setError("Generator failed: " + err.Error())
		return
	}
	if r := m.sess.Load(doc); !r.OK() {
		m.setError(r.Message())
		return
	}
	m.unsynced = true
	if tail, ok := doc.Tail(); ok {
		m.cursor = tail
	}
	m.setStatus(fmt.Sprintf("Generated %d tiles", doc.PathLen()))
}

func (m *Model) share() {
	code, err := codec.EncodeShareCode(m.sess.Document())
	if err != nil {
		m.setError("Share code failed: " + err.Error())
		return
	}
	m.logger.Info("share code", "map", m.sess.Name(), "code", code)
	m.setStatus("Share code: " + code)
}

func (m *Model) listSlots() tea.Cmd {
	if m.gw == nil {
		m.setError("No storage configured")
		return nil
	}
	if !m.sess.BeginIO() {
		m.setError(mapdoc.Busy.Message())
		return nil
	}
	ctx, gw := m.ctx, m.gw
	return func() tea.Msg {
		slots, err := gw.ListSlots(ctx)
		return slotsListedMsg{slots: slots, err: err}
	}
}

func (m Model) updateSlots(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case slotDeletedMsg:
		m.sess.EndIO()
		if !msg.ok {
			m.setError(fmt.Sprintf("Could not delete %q", msg.slot))
		}
		m.slots = nil
		return m, m.listSlots()
	case AutosaveMsg:
		return m.handleAutosave()
	case savedMsg:
		return m.handleSaved(msg), nil
	}

	sm, cmd := m.slots.Update(msg)
	m.slots = &sm
	switch {
	case sm.GoingBack():
		m.slots = nil
	case sm.Chosen() != nil:
		slot := sm.Chosen()
		m.slots = nil
		if r := m.sess.Load(slot.Document); !r.OK() {
			m.setError(r.Message())
			break
		}
		if tail, ok := slot.Document.Tail(); ok {
			m.cursor = tail
		} else {
			m.cursor = core.Point{}
		}
		m.setStatus(fmt.Sprintf("Loaded %q", slot.Name))
	case sm.ToDelete() != "":
		return m, m.deleteSlot(sm.ToDelete())
	}
	return m, cmd
}

func (m *Model) deleteSlot(name string) tea.Cmd {
	if !m.sess.BeginIO() {
		return nil
	}
	ctx, gw := m.ctx, m.gw
	return func() tea.Msg {
		return slotDeletedMsg{slot: name, ok: gw.DeleteSlot(ctx, name)}
	}
}

func (m Model) view() mapView {
	return mapView{screen: m.screen, gridSize: m.sess.Config().GridSize, center: m.cursor}
}

// View renders the editor.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.slots != nil {
		return m.slots.View()
	}

	cfg := m.sess.Config()
	settings := m.sess.Settings()
	m.view().draw(mapFrame{
		snapshot:   m.sess.Snapshot(),
		trackColor: string(settings.TrackColor),
		halfExtent: cfg.HalfExtent(),
		cursor:     m.cursor,
		cursorOK:   m.sess.Preview(m.cursor).OK(),
		symmetry:   m.sess.Symmetry(),
	})

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")

	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	if m.statusErr {
		statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorCursorNo))
	}
	b.WriteString(statusStyle.Render(truncate(m.status, m.width)))
	b.WriteString("\n")

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) header() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	infoStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorBorder))

	name := m.sess.Name()
	if m.sess.Dirty() {
		name += "*"
	}
	info := fmt.Sprintf("  tool:%s  deco:%s  sym:%s  tiles:%d  undo:%d  %s",
		m.sess.Tool(), m.sess.Selected(), onOff(m.sess.Symmetry()),
		len(m.sess.Snapshot().Path), m.sess.UndoDepth(), m.cursor)
	if m.sess.Busy() {
		info += "  [busy]"
	}
	return titleStyle.Render(name) + infoStyle.Render(info)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// Run starts the editor on the local terminal.
func Run(sess *editor.Session, opts ...Option) error {
	model := New(sess, opts...)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
