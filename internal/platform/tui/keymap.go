package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/trackforge/internal/mapdoc"
)

// EditorKeyMap defines the key bindings for the map editor.
type EditorKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Apply     key.Binding
	NextTool  key.Binding
	Tree      key.Binding
	Rock      key.Binding
	Crystal   key.Binding
	Generic   key.Binding
	Undo      key.Binding
	Redo      key.Binding
	Symmetry  key.Binding
	DeleteTip key.Binding
	Save      key.Binding
	Slots     key.Binding
	TestMap   key.Binding
	Generate  key.Binding
	Export    key.Binding
	Share     key.Binding
	Validate  key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k EditorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Apply, k.NextTool, k.Undo, k.Redo, k.Save, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k EditorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Apply, k.NextTool},
		{k.Tree, k.Rock, k.Crystal, k.Generic, k.Symmetry, k.DeleteTip},
		{k.Undo, k.Redo, k.Save, k.Slots, k.Validate},
		{k.TestMap, k.Generate, k.Export, k.Share, k.Help, k.Quit},
	}
}

// DefaultEditorKeyMap returns default key bindings.
func DefaultEditorKeyMap() EditorKeyMap {
	return EditorKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("up/w", "move north"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s"),
			key.WithHelp("down/s", "move south"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("left/a", "move west"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("right/d", "move east"),
		),
		Apply: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "apply tool"),
		),
		NextTool: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tool"),
		),
		Tree: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "tree"),
		),
		Rock: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "rock"),
		),
		Crystal: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "crystal"),
		),
		Generic: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "generic"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u", "ctrl+z"),
			key.WithHelp("u", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("ctrl+y", "U"),
			key.WithHelp("U", "redo"),
		),
		Symmetry: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mirror"),
		),
		DeleteTip: key.NewBinding(
			key.WithKeys("x", "backspace", "delete"),
			key.WithHelp("x", "delete last"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "save"),
		),
		Slots: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open slot"),
		),
		TestMap: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "test map"),
		),
		Generate: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "random map"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export file"),
		),
		Share: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "share code"),
		),
		Validate: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "validate"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// decorationFor maps the number bindings to decoration types.
func (k EditorKeyMap) decorationFor(msg tea.KeyMsg) (mapdoc.DecorationType, bool) {
	for i, b := range []key.Binding{k.Tree, k.Rock, k.Crystal, k.Generic} {
		if key.Matches(msg, b) {
			return mapdoc.DecorationTypes()[i], true
		}
	}
	return "", false
}

// SlotsKeyMap defines the key bindings for the slot browser.
type SlotsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Delete key.Binding
	Back   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k SlotsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Delete, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k SlotsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultSlotsKeyMap returns default key bindings.
func DefaultSlotsKeyMap() SlotsKeyMap {
	return SlotsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b", "q"),
			key.WithHelp("esc/b", "back"),
		),
	}
}
