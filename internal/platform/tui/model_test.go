package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/pixelloop/internal/host"
)

type recorder struct {
	events []host.Event
	exitOn func(host.Event) bool
}

func (r *recorder) fn(ev host.Event) host.ControlFlow {
	r.events = append(r.events, ev)
	if r.exitOn != nil && r.exitOn(ev) {
		return host.Exit
	}
	return host.Continue
}

func newTestModel() (Model, *recorder) {
	rec := &recorder{exitOn: func(ev host.Event) bool {
		_, ok := ev.(host.CloseRequested)
		return ok
	}}
	m := NewModel(NewWindow("test", 80, 24, trueColorRenderer()), 60, DefaultKeyMap())
	m.d.fn = rec.fn
	return m, rec
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return nm, cmd
}

func TestModelTickRequestsRedraw(t *testing.T) {
	m, rec := newTestModel()

	if m.Init() == nil {
		t.Fatal("Init() should start the redraw ticker")
	}

	_, cmd := update(t, m, TickMsg{})
	if cmd == nil {
		t.Error("tick did not schedule the next tick")
	}
	if len(rec.events) != 1 {
		t.Fatalf("events = %v, expected one redraw", rec.events)
	}
	if _, ok := rec.events[0].(host.RedrawRequested); !ok {
		t.Errorf("event = %T, expected RedrawRequested", rec.events[0])
	}
}

func TestModelKeys(t *testing.T) {
	tests := []struct {
		name     string
		msg      tea.KeyMsg
		expected host.Event
		quits    bool
	}{
		{"rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}}, host.KeyInput{Key: "x"}, false},
		{"screenshot", tea.KeyMsg{Type: tea.KeyCtrlS}, host.KeyInput{Key: "ctrl+s"}, false},
		{"q", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}, host.CloseRequested{}, true},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, host.CloseRequested{}, true},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, host.CloseRequested{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, rec := newTestModel()
			_, cmd := update(t, m, tc.msg)

			if len(rec.events) != 1 || rec.events[0] != tc.expected {
				t.Fatalf("events = %v, expected [%v]", rec.events, tc.expected)
			}
			if isQuit(cmd) != tc.quits {
				t.Errorf("quit = %v, expected %v", isQuit(cmd), tc.quits)
			}
		})
	}
}

func TestModelCloseCanBeRefused(t *testing.T) {
	m, rec := newTestModel()
	rec.exitOn = nil

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if isQuit(cmd) {
		t.Error("program quit although the run answered Continue")
	}
}

func TestModelMouse(t *testing.T) {
	m, rec := newTestModel()

	m, _ = update(t, m, tea.MouseMsg{X: 3, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = update(t, m, tea.MouseMsg{X: 5, Y: 4, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m, _ = update(t, m, tea.MouseMsg{X: 5, Y: 4, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone})
	m, _ = update(t, m, tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	_, _ = update(t, m, tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})

	expected := []host.Event{
		host.CursorMoved{X: 3.5, Y: 4.5},
		host.MouseInput{Button: host.MouseLeft, Pressed: true},
		host.CursorMoved{X: 5.5, Y: 4.5},
		host.CursorMoved{X: 5.5, Y: 4.5},
		host.MouseInput{Button: host.MouseLeft, Pressed: false},
		host.CursorMoved{X: 1.5, Y: 1.5},
		host.CursorMoved{X: 1.5, Y: 1.5},
		host.MouseInput{Button: host.MouseRight, Pressed: true},
	}
	if len(rec.events) != len(expected) {
		t.Fatalf("events = %v\nexpected %v", rec.events, expected)
	}
	for i := range expected {
		if rec.events[i] != expected[i] {
			t.Errorf("event %d = %#v, expected %#v", i, rec.events[i], expected[i])
		}
	}
}

func TestModelResize(t *testing.T) {
	m, rec := newTestModel()

	_, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	if cols, rows := m.window.InnerSize(); cols != 120 || rows != 40 {
		t.Errorf("window size = %dx%d, expected 120x40", cols, rows)
	}
	if len(rec.events) != 1 || rec.events[0] != (host.Resized{Width: 120, Height: 40}) {
		t.Errorf("events = %v", rec.events)
	}
}

func TestModelStopsAfterExit(t *testing.T) {
	m, rec := newTestModel()

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !isQuit(cmd) {
		t.Fatal("close did not quit")
	}

	m, cmd = update(t, m, TickMsg{})
	if !isQuit(cmd) {
		t.Error("messages after exit should keep quitting")
	}
	if len(rec.events) != 1 {
		t.Errorf("events delivered after exit: %v", rec.events[1:])
	}
	if m.View() != "" {
		t.Errorf("View() after exit = %q, expected empty", m.View())
	}
}
