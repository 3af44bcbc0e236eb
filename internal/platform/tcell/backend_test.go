package tcell

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/pixelloop/internal/core"
	"github.com/vovakirdan/pixelloop/internal/host"
)

func newSimBackend(t *testing.T, cols, rows int) (*host.Context, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	b := Backend{
		RedrawRate: 100,
		NewScreen:  func() (tcell.Screen, error) { return sim, nil },
	}
	hc, err := b.CreateWindow("test", 64, 48)
	if err != nil {
		t.Fatalf("CreateWindow() failed: %v", err)
	}
	sim.SetSize(cols, rows)
	return hc, sim
}

// runUntilClose runs the source and returns every non-redraw event up to and
// including the close request.
func runUntilClose(t *testing.T, hc *host.Context) ([]host.Event, int) {
	t.Helper()
	src, err := hc.Handoff()
	if err != nil {
		t.Fatal(err)
	}

	var events []host.Event
	redraws := 0
	done := make(chan error, 1)
	go func() {
		done <- src.Run(func(ev host.Event) host.ControlFlow {
			switch ev.(type) {
			case host.RedrawRequested:
				redraws++
				return host.Continue
			case host.CloseRequested:
				events = append(events, ev)
				return host.Exit
			}
			events = append(events, ev)
			return host.Continue
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return")
	}
	return events, redraws
}

func TestCreateWindowErrors(t *testing.T) {
	failing := Backend{
		RedrawRate: 60,
		NewScreen:  func() (tcell.Screen, error) { return nil, errors.New("no tty") },
	}
	if _, err := failing.CreateWindow("x", 10, 10); !errors.Is(err, host.ErrWindowCreate) {
		t.Errorf("CreateWindow() error = %v, expected ErrWindowCreate", err)
	}
	if _, err := (Backend{}).CreateWindow("x", 10, 10); !errors.Is(err, host.ErrWindowCreate) {
		t.Errorf("CreateWindow() without redraw rate error = %v, expected ErrWindowCreate", err)
	}
}

func TestSourceTranslatesEvents(t *testing.T) {
	hc, sim := newSimBackend(t, 20, 10)

	sim.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	sim.InjectKey(tcell.KeyCtrlS, 0, tcell.ModCtrl)
	sim.InjectMouse(4, 3, tcell.Button1, tcell.ModNone)
	sim.InjectMouse(6, 3, tcell.Button1, tcell.ModNone)
	sim.InjectMouse(6, 3, tcell.ButtonNone, tcell.ModNone)
	sim.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	events, _ := runUntilClose(t, hc)

	expected := []host.Event{
		host.KeyInput{Key: "x"},
		host.KeyInput{Key: "ctrl+s"},
		host.CursorMoved{X: 4.5, Y: 3.5},
		host.MouseInput{Button: host.MouseLeft, Pressed: true},
		host.CursorMoved{X: 6.5, Y: 3.5},
		host.CursorMoved{X: 6.5, Y: 3.5},
		host.MouseInput{Button: host.MouseLeft, Pressed: false},
		host.CloseRequested{},
	}

	// The simulation screen may report its initial size first.
	for len(events) > 0 {
		if _, ok := events[0].(host.Resized); !ok {
			break
		}
		events = events[1:]
	}

	if len(events) != len(expected) {
		t.Fatalf("events = %v\nexpected %v", events, expected)
	}
	for i := range expected {
		if events[i] != expected[i] {
			t.Errorf("event %d = %#v, expected %#v", i, events[i], expected[i])
		}
	}
}

func TestSourceRedraws(t *testing.T) {
	hc, sim := newSimBackend(t, 20, 10)

	go func() {
		time.Sleep(100 * time.Millisecond)
		sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	}()

	_, redraws := runUntilClose(t, hc)
	if redraws == 0 {
		t.Error("no redraws were requested while the source ran")
	}
}

func TestWindowPresent(t *testing.T) {
	hc, sim := newSimBackend(t, 4, 2)
	win := hc.Window()

	if cols, rows := win.InnerSize(); cols != 4 || rows != 2 {
		t.Fatalf("InnerSize() = %dx%d, expected 4x2", cols, rows)
	}

	// Top half red, bottom half yellow: row 0 is red over red, row 1 yellow over yellow.
	frame := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		c := core.Red
		if y >= 24 {
			c = core.Yellow
		}
		for x := 0; x < 64; x++ {
			off := frame.PixOffset(x, y)
			copy(frame.Pix[off:off+4], c[:])
		}
	}

	if err := win.Present(frame); err != nil {
		t.Fatalf("Present() failed: %v", err)
	}

	mainc, _, style, _ := sim.GetContent(1, 0)
	if mainc != halfBlock {
		t.Errorf("cell rune = %q, expected %q", mainc, halfBlock)
	}
	fg, bg, _ := style.Decompose()
	if fg != tcell.NewRGBColor(255, 0, 0) || bg != tcell.NewRGBColor(255, 0, 0) {
		t.Errorf("row 0 colours = %v / %v, expected red over red", fg, bg)
	}

	_, _, style, _ = sim.GetContent(2, 1)
	fg, bg, _ = style.Decompose()
	if fg != tcell.NewRGBColor(255, 255, 0) || bg != tcell.NewRGBColor(255, 255, 0) {
		t.Errorf("row 1 colours = %v / %v, expected yellow over yellow", fg, bg)
	}
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		ev       *tcell.EventKey
		expected string
	}{
		{tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), "a"},
		{tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModAlt), "alt+a"},
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "enter"},
		{tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl), "ctrl+s"},
	}

	for _, tc := range tests {
		if got := keyName(tc.ev); got != tc.expected {
			t.Errorf("keyName(%s) = %q, expected %q", tc.ev.Name(), got, tc.expected)
		}
	}
}

// finiScreen counts Fini calls on a simulation screen.
type finiScreen struct {
	tcell.SimulationScreen
	finis int
}

func (s *finiScreen) Fini() {
	s.finis++
	s.SimulationScreen.Fini()
}

func newFiniBackend(t *testing.T) (*host.Context, *finiScreen) {
	t.Helper()
	screen := &finiScreen{SimulationScreen: tcell.NewSimulationScreen("UTF-8")}
	b := Backend{
		RedrawRate: 100,
		NewScreen:  func() (tcell.Screen, error) { return screen, nil },
	}
	hc, err := b.CreateWindow("test", 64, 48)
	if err != nil {
		t.Fatalf("CreateWindow() failed: %v", err)
	}
	return hc, screen
}

func TestContextCloseRestoresScreen(t *testing.T) {
	hc, screen := newFiniBackend(t)

	if err := hc.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if screen.finis != 1 {
		t.Errorf("Fini calls = %d, expected 1", screen.finis)
	}
}

func TestRunFinalisesScreenOnce(t *testing.T) {
	hc, screen := newFiniBackend(t)
	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	runUntilClose(t, hc)
	if err := hc.Close(); err != nil {
		t.Fatalf("Close() after Run failed: %v", err)
	}
	if screen.finis != 1 {
		t.Errorf("Fini calls = %d, expected 1", screen.finis)
	}
}
