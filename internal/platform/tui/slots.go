package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/trackforge/internal/storage"
)

// SlotsModel is the slot browser: a table of saved maps the user can open
// or delete.
type SlotsModel struct {
	slots     []storage.Slot
	table     table.Model
	help      help.Model
	keys      SlotsKeyMap
	width     int
	height    int
	chosen    *storage.Slot
	toDelete  string
	goingBack bool
}

// NewSlotsModel creates a slot browser over the given slots.
func NewSlotsModel(slots []storage.Slot, width, height int) SlotsModel {
	h := help.New()
	h.Width = width
	m := SlotsModel{
		slots:  slots,
		keys:   DefaultSlotsKeyMap(),
		help:   h,
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

func (m *SlotsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Slot", Width: 20},
		{Title: "Map", Width: 20},
		{Title: "Tiles", Width: 6},
		{Title: "Decor", Width: 6},
		{Title: "Saved", Width: 18},
	}

	// Give the name columns whatever the terminal has to spare.
	if spare := m.width - 4 - 70 - 2*len(columns); spare > 0 {
		columns[0].Width += spare / 2
		columns[1].Width += spare - spare/2
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-6, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m *SlotsModel) updateTableRows() {
	rows := make([]table.Row, len(m.slots))
	for i, s := range m.slots {
		snap := s.Document.Snapshot()
		rows[i] = table.Row{
			s.Name,
			s.Document.Name(),
			fmt.Sprintf("%d", len(snap.Path)),
			fmt.Sprintf("%d", len(snap.Decorations)),
			s.SavedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *SlotsModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.table = m.createTable()
	m.updateTableRows()
}

// Init implements tea.Model.
func (m SlotsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the slot browser.
func (m SlotsModel) Update(msg tea.Msg) (SlotsModel, tea.Cmd) {
	m.chosen = nil
	m.toDelete = ""

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil
		case key.Matches(msg, m.keys.Open):
			if s := m.selected(); s != nil {
				m.chosen = s
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if s := m.selected(); s != nil {
				m.toDelete = s.Name
			}
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m SlotsModel) selected() *storage.Slot {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.slots) {
		return nil
	}
	s := m.slots[i]
	return &s
}

// Chosen returns the slot the user opened, if any.
func (m SlotsModel) Chosen() *storage.Slot {
	return m.chosen
}

// ToDelete returns the name of the slot the user asked to delete.
func (m SlotsModel) ToDelete() string {
	return m.toDelete
}

// GoingBack returns true if the user left the browser.
func (m SlotsModel) GoingBack() bool {
	return m.goingBack
}

// View renders the slot browser.
func (m SlotsModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(centerText("SAVED MAPS", m.width)))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	if len(m.slots) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		b.WriteString(tableStyle.Render(emptyStyle.Render("No saved maps yet.\nPress ctrl+s in the editor to save one!")))
	} else {
		b.WriteString(tableStyle.Render(m.table.View()))
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// centerText pads text so it sits in the middle of width columns.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
