package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap holds the bindings the host interprets itself. Every other key is
// passed on as a host.KeyInput.
type KeyMap struct {
	Quit key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "quit"),
		),
	}
}

// IsQuit reports whether msg asks the host to close.
func (km KeyMap) IsQuit(msg tea.KeyMsg) bool {
	return key.Matches(msg, km.Quit)
}
