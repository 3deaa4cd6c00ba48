// Package tui provides the Bubble Tea integration for the map editor.
// It handles the terminal UI loop, key bindings, rendering and the async
// storage commands.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// AutosaveMsg is sent when the autosave interval elapses.
type AutosaveMsg time.Time

// autosaveCmd schedules the next autosave tick. A zero interval disables
// autosave.
func autosaveCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		return nil
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return AutosaveMsg(t)
	})
}
