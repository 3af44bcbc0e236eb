package bounce

import (
	"bytes"
	"image"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pixelloop/internal/config"
	"github.com/vovakirdan/pixelloop/internal/core"
	"github.com/vovakirdan/pixelloop/internal/host"
)

type testPresenter struct{}

func (testPresenter) Present(*image.RGBA) error { return nil }
func (testPresenter) InnerSize() (int, int)     { return 1280, 960 }

var testRuntime = core.RuntimeConfig{Width: 640, Height: 480, UpdateRate: 120, RedrawRate: 60}

func newTestScene(t *testing.T) (*Scene, *core.PixelSurface) {
	t.Helper()
	surface, err := core.NewPixelSurface(640, 480, testPresenter{})
	if err != nil {
		t.Fatalf("NewPixelSurface() failed: %v", err)
	}
	s := New(config.Default())
	s.Reset(testRuntime)
	return s, surface
}

func step(t *testing.T, s *Scene, surface core.RenderSurface, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := s.Update(surface); err != nil {
			t.Fatalf("Update() failed at step %d: %v", i, err)
		}
	}
}

func TestFirstStep(t *testing.T) {
	s, surface := newTestScene(t)
	step(t, s, surface, 1)

	snap := s.Snapshot()
	if snap.X != 1 || snap.Y != 1 {
		t.Errorf("position after one update = (%d, %d), expected (1, 1)", snap.X, snap.Y)
	}
	if snap.Swapped {
		t.Error("colour swapped without a wall hit")
	}
}

func TestBottomWallBounce(t *testing.T) {
	s, surface := newTestScene(t)

	// 420 + 60 reaches the bottom edge of a 480 high surface.
	step(t, s, surface, 420)

	snap := s.Snapshot()
	if snap.Y != 419 || snap.DirY != -1 {
		t.Errorf("after bottom hit y=%d dirY=%d, expected 419 and -1", snap.Y, snap.DirY)
	}
	if snap.X != 420 || snap.DirX != 1 {
		t.Errorf("x axis changed: x=%d dirX=%d", snap.X, snap.DirX)
	}
	if !snap.Swapped {
		t.Error("wall hit did not swap the colour")
	}

	// 590 + 50 reaches the right edge and swaps back.
	step(t, s, surface, 170)
	snap = s.Snapshot()
	if snap.X != 589 || snap.DirX != -1 {
		t.Errorf("after right hit x=%d dirX=%d, expected 589 and -1", snap.X, snap.DirX)
	}
	if snap.Swapped {
		t.Error("second wall hit should swap the colour back")
	}
}

func TestBoxStaysOnSurface(t *testing.T) {
	s, surface := newTestScene(t)

	for i := 0; i < 5000; i++ {
		step(t, s, surface, 1)
		if err := s.Render(surface, time.Millisecond); err != nil {
			t.Fatalf("Render() failed after %d updates: %v", i+1, err)
		}
		snap := s.Snapshot()
		r := core.NewRect(snap.X, snap.Y, 50, 60)
		if !r.Within(surface.Width(), surface.Height()) {
			t.Fatalf("box %+v left the surface after %d updates", r, i+1)
		}
	}
}

func TestRenderColours(t *testing.T) {
	s, surface := newTestScene(t)

	if err := s.Render(surface, 0); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if got := surface.Get(10, 10); got != core.Yellow {
		t.Errorf("box pixel = %v, expected yellow", got)
	}
	if got := surface.Get(100, 100); got != core.Black {
		t.Errorf("background pixel = %v, expected black", got)
	}

	step(t, s, surface, 420)
	if err := s.Render(surface, 0); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if got := surface.Get(430, 430); got != core.Red {
		t.Errorf("box pixel after wall hit = %v, expected red", got)
	}
}

func TestHandleEvent(t *testing.T) {
	s, surface := newTestScene(t)

	events := []host.Event{
		host.MouseInput{Button: host.MouseLeft, Pressed: true},
		host.MouseInput{Button: host.MouseRight, Pressed: false},
		host.CursorMoved{X: 640, Y: 480},
	}
	for _, ev := range events {
		if err := s.HandleEvent(surface, ev); err != nil {
			t.Fatalf("HandleEvent(%T) failed: %v", ev, err)
		}
	}

	snap := s.Snapshot()
	if !snap.ButtonPressed {
		t.Error("left press not tracked, or right release cleared it")
	}
	if snap.CursorX != 320 || snap.CursorY != 240 {
		t.Errorf("cursor = (%d, %d), expected (320, 240)", snap.CursorX, snap.CursorY)
	}

	_ = s.HandleEvent(surface, host.CursorMoved{X: -5, Y: 2000})
	if snap := s.Snapshot(); snap.CursorX != 0 || snap.CursorY != 0 {
		t.Errorf("cursor outside the surface = (%d, %d), expected the origin", snap.CursorX, snap.CursorY)
	}

	_ = s.HandleEvent(surface, host.MouseInput{Button: host.MouseLeft, Pressed: false})
	if s.Snapshot().ButtonPressed {
		t.Error("left release not tracked")
	}
}

func TestRateReport(t *testing.T) {
	s, surface := newTestScene(t)
	var buf bytes.Buffer
	s.SetLogger(log.New(&buf))

	// 61 renders of 1/60s with two updates each crosses one second once.
	for i := 0; i < 61; i++ {
		step(t, s, surface, 2)
		if err := s.Render(surface, time.Second/60); err != nil {
			t.Fatal(err)
		}
	}

	r := s.Rates()
	if r.Render < 59 || r.Render > 61 {
		t.Errorf("render rate = %.2f, expected about 60", r.Render)
	}
	if r.Update < 118 || r.Update > 122 {
		t.Errorf("update rate = %.2f, expected about 120", r.Update)
	}
	if !strings.Contains(buf.String(), "frame rates") {
		t.Errorf("rate report not logged: %q", buf.String())
	}
}

func TestResetRestoresStart(t *testing.T) {
	s, surface := newTestScene(t)
	step(t, s, surface, 500)
	s.Reset(testRuntime)

	if snap := s.Snapshot(); snap != (Snapshot{DirX: 1, DirY: 1}) {
		t.Errorf("Snapshot() after Reset = %+v", snap)
	}
}
