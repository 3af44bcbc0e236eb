// Package paint is a pointer-driven drawing scene. Dragging with the left
// button lays down brush squares, the right button wipes the canvas, and the
// brush hue advances on the fixed update cadence.
package paint

import (
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pixelloop/internal/config"
	"github.com/vovakirdan/pixelloop/internal/core"
	"github.com/vovakirdan/pixelloop/internal/host"
	"github.com/vovakirdan/pixelloop/internal/registry"
)

const (
	sceneID  = "paint"
	hueDelta = 15.0 // Degrees per brush colour change
)

type dot struct {
	x, y  int
	color core.Color
}

// Scene implements the paint canvas.
type Scene struct {
	brushSize int
	maxDots   int
	hueStep   int

	dots     []dot
	painting bool
	cursorX  int
	cursorY  int
	onCanvas bool

	hue     float64
	brush   core.Color
	updates int

	logger *log.Logger
}

// New creates a paint scene from the application config.
func New(cfg config.Config) *Scene {
	s := &Scene{
		brushSize: max(cfg.Paint.BrushSize, 1),
		maxDots:   cfg.Paint.MaxDots,
		hueStep:   max(cfg.Paint.HueStep, 1),
		logger:    log.Default(),
	}
	s.reset()
	return s
}

func init() {
	registry.Register(sceneID, func(cfg config.Config) registry.Scene {
		return New(cfg)
	})
}

// ID returns the scene identifier.
func (s *Scene) ID() string {
	return sceneID
}

// Title returns the display name.
func (s *Scene) Title() string {
	return "Paint"
}

// SetLogger sets the scene logger.
func (s *Scene) SetLogger(l *log.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Reset wipes the canvas.
func (s *Scene) Reset(core.RuntimeConfig) {
	s.reset()
}

func (s *Scene) reset() {
	s.dots = s.dots[:0]
	s.painting = false
	s.onCanvas = false
	s.hue = 0
	s.brush = core.HSV(0, 1, 1)
	s.updates = 0
}

// Update advances the brush hue every hueStep steps.
func (s *Scene) Update(core.RenderSurface) error {
	s.updates++
	if s.updates%s.hueStep == 0 {
		s.hue = math.Mod(s.hue+hueDelta, 360)
		s.brush = core.HSV(s.hue, 1, 1)
	}
	return nil
}

// Render draws every dot, clipped to the surface.
func (s *Scene) Render(surface core.RenderSurface, _ time.Duration) error {
	surface.ClearScreen(core.Black)

	for _, d := range s.dots {
		r, ok := s.brushRect(d.x, d.y, surface.Width(), surface.Height())
		if !ok {
			continue
		}
		if err := surface.FilledRect(r.X, r.Y, r.W, r.H, d.color); err != nil {
			return err
		}
	}
	return nil
}

// brushRect returns the brush square centred on (x, y), clipped to a
// width x height surface.
func (s *Scene) brushRect(x, y, width, height int) (core.Rect, bool) {
	half := s.brushSize / 2
	x0 := core.Clamp(x-half, 0, width)
	y0 := core.Clamp(y-half, 0, height)
	x1 := core.Clamp(x-half+s.brushSize, 0, width)
	y1 := core.Clamp(y-half+s.brushSize, 0, height)

	r := core.NewRect(x0, y0, x1-x0, y1-y0)
	return r, !r.Empty()
}

// HandleEvent paints while the left button is held and clears on a right
// click. Cursor positions outside the surface do not paint.
func (s *Scene) HandleEvent(surface core.RenderSurface, ev host.Event) error {
	switch e := ev.(type) {
	case host.CursorMoved:
		s.cursorX, s.cursorY, s.onCanvas = surface.PhysicalPosToSurfacePos(e.X, e.Y)
		if s.painting {
			s.paint()
		}
	case host.MouseInput:
		switch e.Button {
		case host.MouseLeft:
			s.painting = e.Pressed
			if e.Pressed {
				s.paint()
			}
		case host.MouseRight:
			if e.Pressed {
				s.logger.Debug("canvas cleared", "dots", len(s.dots))
				s.dots = s.dots[:0]
			}
		}
	}
	return nil
}

func (s *Scene) paint() {
	if !s.onCanvas {
		return
	}
	if s.maxDots > 0 && len(s.dots) >= s.maxDots {
		s.dots = append(s.dots[:0], s.dots[1:]...)
	}
	s.dots = append(s.dots, dot{x: s.cursorX, y: s.cursorY, color: s.brush})
}

// Dots returns the number of brush marks on the canvas.
func (s *Scene) Dots() int {
	return len(s.dots)
}

// Brush returns the current brush colour.
func (s *Scene) Brush() core.Color {
	return s.brush
}
