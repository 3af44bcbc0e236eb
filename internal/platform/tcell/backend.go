// Package tcell provides a host backend on a tcell screen. Events are pumped
// by PollEvent on a helper goroutine; every host callback runs on the
// goroutine that called Run.
package tcell

import (
	"fmt"
	"image"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/image/draw"

	"github.com/vovakirdan/pixelloop/internal/core"
	"github.com/vovakirdan/pixelloop/internal/host"
)

const halfBlock = '▀'

// Backend creates tcell host contexts.
type Backend struct {
	RedrawRate int
	// NewScreen replaces tcell.NewScreen, e.g. with a simulation screen.
	NewScreen func() (tcell.Screen, error)
}

// CreateWindow initialises the screen with mouse reporting and wraps it in a
// window and an event source.
func (b Backend) CreateWindow(title string, width, height int) (*host.Context, error) {
	if b.RedrawRate <= 0 {
		return nil, fmt.Errorf("%w: redraw rate %d", host.ErrWindowCreate, b.RedrawRate)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: surface %dx%d", host.ErrWindowCreate, width, height)
	}

	newScreen := b.NewScreen
	if newScreen == nil {
		newScreen = tcell.NewScreen
	}
	screen, err := newScreen()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", host.ErrWindowCreate, err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("%w: %w", host.ErrWindowCreate, err)
	}
	screen.EnableMouse()
	screen.HideCursor()
	screen.Clear()

	win := &Window{title: title, screen: screen}
	src := &Source{screen: screen, interval: time.Second / time.Duration(b.RedrawRate)}
	return host.NewContext(src, win), nil
}

var _ host.Backend = Backend{}

// Window presents frames on a tcell screen. Its physical units are cells.
type Window struct {
	title  string
	screen tcell.Screen
	scaled *image.RGBA
}

// Title returns the window title.
func (w *Window) Title() string {
	return w.title
}

// InnerSize returns the screen size in cells.
func (w *Window) InnerSize() (int, int) {
	return w.screen.Size()
}

// Present scales frame to two pixels per cell and shows it.
func (w *Window) Present(frame *image.RGBA) error {
	cols, rows := w.screen.Size()
	if cols <= 0 || rows <= 0 {
		return nil
	}

	bounds := image.Rect(0, 0, cols, rows*2)
	if w.scaled == nil || w.scaled.Bounds() != bounds {
		w.scaled = image.NewRGBA(bounds)
	}
	draw.NearestNeighbor.Scale(w.scaled, bounds, frame, frame.Bounds(), draw.Src, nil)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := rgbAt(w.scaled, x, y*2)
			bottom := rgbAt(w.scaled, x, y*2+1)
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			w.screen.SetContent(x, y, halfBlock, nil, style)
		}
	}
	w.screen.Show()
	return nil
}

func rgbAt(img *image.RGBA, x, y int) tcell.Color {
	off := img.PixOffset(x, y)
	return tcell.NewRGBColor(int32(img.Pix[off]), int32(img.Pix[off+1]), int32(img.Pix[off+2]))
}

// Source delivers tcell events and redraw ticks. It finalises the screen
// when Run returns, or on Close if it never ran.
type Source struct {
	screen   tcell.Screen
	interval time.Duration
	buttons  tcell.ButtonMask
	fini     sync.Once
}

// Close restores the terminal. It is safe to call more than once.
func (s *Source) Close() error {
	s.fini.Do(s.screen.Fini)
	return nil
}

// Run blocks until fn answers host.Exit or the screen stops delivering
// events.
func (s *Source) Run(fn func(host.Event) host.ControlFlow) error {
	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	defer s.Close()

	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			for _, hev := range s.translate(ev) {
				if fn(hev) == host.Exit {
					return nil
				}
			}
		case <-ticker.C:
			if fn(host.RedrawRequested{}) == host.Exit {
				return nil
			}
		}
	}
}

// translate maps one tcell event to host events.
func (s *Source) translate(ev tcell.Event) []host.Event {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if isQuit(ev) {
			return []host.Event{host.CloseRequested{}}
		}
		return []host.Event{host.KeyInput{Key: keyName(ev)}}

	case *tcell.EventMouse:
		x, y := ev.Position()
		out := []host.Event{host.CursorMoved{X: float64(x) + 0.5, Y: float64(y) + 0.5}}

		buttons := ev.Buttons()
		for _, b := range []struct {
			mask   tcell.ButtonMask
			button host.MouseButton
		}{
			{tcell.Button1, host.MouseLeft},
			{tcell.Button2, host.MouseRight},
			{tcell.Button3, host.MouseMiddle},
		} {
			was, is := s.buttons&b.mask != 0, buttons&b.mask != 0
			if was != is {
				out = append(out, host.MouseInput{Button: b.button, Pressed: is})
			}
		}
		s.buttons = buttons
		return out

	case *tcell.EventResize:
		w, h := ev.Size()
		return []host.Event{host.Resized{Width: w, Height: h}}
	}
	return nil
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' && ev.Modifiers() == tcell.ModNone
	}
	return false
}

// keyName spells keys the way the Bubble Tea backend does ("x", "ctrl+s",
// "enter") so scenes see the same names on both hosts.
func keyName(ev *tcell.EventKey) string {
	if ev.Key() == tcell.KeyRune {
		name := string(ev.Rune())
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			name = "ctrl+" + name
		}
		if ev.Modifiers()&tcell.ModAlt != 0 {
			name = "alt+" + name
		}
		return name
	}
	name := strings.ToLower(tcell.KeyNames[ev.Key()])
	if name == "" {
		return strings.ToLower(ev.Name())
	}
	return strings.ReplaceAll(name, "-", "+")
}

var _ core.Presenter = (*Window)(nil)
