// Package bounce is the bouncing box demo: a box drifts one step per update,
// reflects off the surface edges and swaps colour on every wall hit. The
// left button state and the cursor position are tracked from host events.
package bounce

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pixelloop/internal/config"
	"github.com/vovakirdan/pixelloop/internal/core"
	"github.com/vovakirdan/pixelloop/internal/engine"
	"github.com/vovakirdan/pixelloop/internal/host"
	"github.com/vovakirdan/pixelloop/internal/registry"
)

const sceneID = "bounce"

// Scene implements the bouncing box.
type Scene struct {
	boxX, boxY int
	dirX, dirY int
	boxW, boxH int
	speed      int
	swapColor  bool

	color    core.Color
	altColor core.Color

	buttonPressed bool
	cursorX       int
	cursorY       int

	meter  *engine.RateMeter
	logger *log.Logger
	last   engine.Rates
}

// New creates a bounce scene from the application config. Unparseable
// colours fall back to yellow and red.
func New(cfg config.Config) *Scene {
	s := &Scene{
		boxW:     cfg.Bounce.BoxWidth,
		boxH:     cfg.Bounce.BoxHeight,
		speed:    max(cfg.Bounce.Speed, 1),
		color:    core.Yellow,
		altColor: core.Red,
		logger:   log.Default(),
	}
	if c, err := core.ParseHex(cfg.Bounce.Color); err == nil {
		s.color = c
	}
	if c, err := core.ParseHex(cfg.Bounce.AltColor); err == nil {
		s.altColor = c
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
	return "Bouncing Box"
}

// SetLogger sets the logger used for the per-second rate report.
func (s *Scene) SetLogger(l *log.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Reset puts the box back in the top-left corner.
func (s *Scene) Reset(core.RuntimeConfig) {
	s.reset()
}

func (s *Scene) reset() {
	s.boxX, s.boxY = 0, 0
	s.dirX, s.dirY = s.speed, s.speed
	s.swapColor = false
	s.buttonPressed = false
	s.cursorX, s.cursorY = 0, 0
	s.meter = engine.NewRateMeter(time.Second)
	s.last = engine.Rates{}
}

// Update moves the box one step. A box that would cross an edge reverses on
// that axis and steps back, and every reversal toggles the colour.
func (s *Scene) Update(surface core.RenderSurface) error {
	s.boxX += s.dirX
	s.boxY += s.dirY

	if s.boxX+s.boxW >= surface.Width() || s.boxX < 0 {
		s.dirX = -s.dirX
		s.boxX += s.dirX
		s.swapColor = !s.swapColor
	}
	if s.boxY+s.boxH >= surface.Height() || s.boxY < 0 {
		s.dirY = -s.dirY
		s.boxY += s.dirY
		s.swapColor = !s.swapColor
	}

	s.meter.Update()
	return nil
}

// Render clears to black and draws the box.
func (s *Scene) Render(surface core.RenderSurface, dt time.Duration) error {
	surface.ClearScreen(core.Black)

	c := s.color
	if s.swapColor {
		c = s.altColor
	}
	if err := surface.FilledRect(s.boxX, s.boxY, s.boxW, s.boxH, c); err != nil {
		return err
	}

	if r, ok := s.meter.Render(dt); ok {
		s.last = r
		s.logger.Info("frame rates", "update_fps", r.Update, "render_fps", r.Render)
	}
	return nil
}

// HandleEvent tracks the left button and maps the cursor onto the surface.
// A cursor outside the surface maps to the origin.
func (s *Scene) HandleEvent(surface core.RenderSurface, ev host.Event) error {
	switch e := ev.(type) {
	case host.MouseInput:
		if e.Button == host.MouseLeft {
			s.buttonPressed = e.Pressed
		}
	case host.CursorMoved:
		x, y, ok := surface.PhysicalPosToSurfacePos(e.X, e.Y)
		if !ok {
			x, y = 0, 0
		}
		s.cursorX, s.cursorY = x, y
	case host.Resized:
		s.logger.Debug("host resized", "width", e.Width, "height", e.Height)
	}
	return nil
}

// Rates returns the most recent rate report.
func (s *Scene) Rates() engine.Rates {
	return s.last
}
