package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/pixelloop/internal/host"
)

// dispatch delivers host events to the run callback. It is shared by every
// copy of the Model.
type dispatch struct {
	fn      func(host.Event) host.ControlFlow
	done    bool
	pressed host.MouseButton
	holding bool
}

// send delivers ev unless the run has already exited. It reports whether the
// run wants to stop.
func (d *dispatch) send(ev host.Event) bool {
	if d.done || d.fn == nil {
		return d.done
	}
	if d.fn(ev) == host.Exit {
		d.done = true
	}
	return d.done
}

// Model is the Bubble Tea model that turns terminal messages into host
// events. It never touches the engine directly.
type Model struct {
	window     *Window
	redrawRate int
	keys       KeyMap
	d          *dispatch
}

// NewModel creates a model presenting to window and requesting redraws
// redrawRate times per second.
func NewModel(window *Window, redrawRate int, keys KeyMap) Model {
	return Model{
		window:     window,
		redrawRate: redrawRate,
		keys:       keys,
		d:          &dispatch{},
	}
}

// Init starts the redraw ticker.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.redrawRate)
}

// Update handles messages and forwards them as host events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.d.done {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case TickMsg:
		if m.d.send(host.RedrawRequested{}) {
			return m, tea.Quit
		}
		return m, tickCmd(m.redrawRate)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.window.Resize(msg.Width, msg.Height)
		if m.d.send(host.Resized{Width: msg.Width, Height: msg.Height}) {
			return m, tea.Quit
		}
	}

	return m, nil
}

// handleKey processes keyboard input. The quit binding becomes a close
// request; the run decides whether to honour it.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var ev host.Event = host.KeyInput{Key: msg.String()}
	if m.keys.IsQuit(msg) {
		ev = host.CloseRequested{}
	}
	if m.d.send(ev) {
		return m, tea.Quit
	}
	return m, nil
}

// handleMouse reports the pointer at the centre of its cell, then any button
// transition.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	moved := host.CursorMoved{X: float64(msg.X) + 0.5, Y: float64(msg.Y) + 0.5}
	if m.d.send(moved) {
		return m, tea.Quit
	}

	var ev host.Event
	switch msg.Action {
	case tea.MouseActionPress:
		if b, ok := mouseButton(msg.Button); ok {
			m.d.pressed, m.d.holding = b, true
			ev = host.MouseInput{Button: b, Pressed: true}
		}
	case tea.MouseActionRelease:
		b, ok := mouseButton(msg.Button)
		if !ok && m.d.holding {
			// Legacy mouse encodings do not say which button was released.
			b, ok = m.d.pressed, true
		}
		if ok {
			m.d.holding = false
			ev = host.MouseInput{Button: b, Pressed: false}
		}
	}

	if ev != nil && m.d.send(ev) {
		return m, tea.Quit
	}
	return m, nil
}

func mouseButton(b tea.MouseButton) (host.MouseButton, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return host.MouseLeft, true
	case tea.MouseButtonRight:
		return host.MouseRight, true
	case tea.MouseButtonMiddle:
		return host.MouseMiddle, true
	}
	return 0, false
}

// View renders the last presented frame.
func (m Model) View() string {
	if m.d.done {
		return ""
	}
	return m.window.View()
}
