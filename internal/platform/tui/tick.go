// Package tui provides the Bubble Tea integration for the platform.
// It handles the terminal UI loop, input mapping, and game orchestration.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg drives one simulation step. The battle engine advances on these
// rather than on wall-clock reads so local and SSH play step identically.
type TickMsg time.Time

// tickCmd schedules the next TickMsg at the configured simulation rate.
func tickCmd(tickRate int) tea.Cmd {
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
