// Package tui provides the Bubble Tea host backend. A Bubble Tea program
// owns the terminal, its messages are translated into host events, and the
// surface frame is drawn with half-block cells.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to request a redraw.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(redrawRate int) tea.Cmd {
	interval := time.Second / time.Duration(redrawRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
