// Package app binds a registered scene to an engine loop and a host, and
// records the finished run.
package app

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pixelloop/internal/capture"
	"github.com/vovakirdan/pixelloop/internal/config"
	"github.com/vovakirdan/pixelloop/internal/core"
	"github.com/vovakirdan/pixelloop/internal/engine"
	"github.com/vovakirdan/pixelloop/internal/host"
	"github.com/vovakirdan/pixelloop/internal/registry"
	"github.com/vovakirdan/pixelloop/internal/storage"
)

// ScreenshotKey saves the current frame when a scene is running.
const ScreenshotKey = "ctrl+s"

// Exit reasons recorded with a run.
const (
	ExitClosed    = "closed"
	ExitCancelled = "cancelled"
	ExitError     = "error"
)

// Loop is the engine loop every session runs.
type Loop = engine.Loop[registry.Scene, *core.PixelSurface]

// RunStore persists finished runs.
type RunStore interface {
	SaveRun(r storage.Run) (int64, error)
}

// Options configures a Session.
type Options struct {
	Config  config.Config
	Logger  *log.Logger
	Store   RunStore       // Optional
	Shots   *capture.Saver // Optional; screenshots are disabled without it
	Backend string         // Recorded with the run
	Clock   func() time.Time
}

// Session is one scene running on one surface.
type Session struct {
	scene   registry.Scene
	surface *core.PixelSurface
	loop    *Loop
	opts    Options
	logger  *log.Logger
}

// NewSession creates the scene, resets it for the surface and builds the
// loop. A zero update rate fails here with engine.ErrZeroUpdateRate.
func NewSession(sceneID string, surface *core.PixelSurface, opts Options) (*Session, error) {
	scene, err := registry.Create(sceneID, opts.Config)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.With("scene", sceneID)
	if ls, ok := scene.(registry.LoggerSetter); ok {
		ls.SetLogger(logger)
	}

	scene.Reset(core.RuntimeConfig{
		Width:      surface.Width(),
		Height:     surface.Height(),
		UpdateRate: opts.Config.Loop.UpdateRate,
		RedrawRate: opts.Config.Loop.RedrawRate,
		Seed:       time.Now().UnixNano(),
	})

	loopOpts := []engine.Option{engine.WithLogger(logger)}
	if opts.Clock != nil {
		loopOpts = append(loopOpts, engine.WithClock(opts.Clock))
	}
	loop, err := engine.New(opts.Config.Loop.UpdateRate, scene, surface, update, render, loopOpts...)
	if err != nil {
		return nil, fmt.Errorf("create engine loop: %w", err)
	}

	return &Session{
		scene:   scene,
		surface: surface,
		loop:    loop,
		opts:    opts,
		logger:  logger,
	}, nil
}

func update(scene registry.Scene, surface *core.PixelSurface) error {
	return scene.Update(surface)
}

// render draws the scene and presents the frame.
func render(scene registry.Scene, surface *core.PixelSurface, dt time.Duration) error {
	if err := scene.Render(surface, dt); err != nil {
		return err
	}
	return surface.Blit()
}

// handle takes screenshots and forwards every event to the scene.
func (s *Session) handle(scene registry.Scene, surface *core.PixelSurface, ev host.Event) error {
	if k, ok := ev.(host.KeyInput); ok && k.Key == ScreenshotKey && s.opts.Shots != nil {
		if path, err := s.opts.Shots.Save(scene.ID(), surface.Frame()); err != nil {
			s.logger.Warn("screenshot failed", "error", err)
		} else {
			s.logger.Info("screenshot saved", "path", path)
		}
	}
	return scene.HandleEvent(surface, ev)
}

// RunWithHost drives the session from the host's redraw requests.
func (s *Session) RunWithHost(hc *host.Context) error {
	err := engine.RunWithHost(hc, s.loop, s.handle)
	s.finish(exitReason(err, ExitClosed))
	return err
}

// RunFree runs the session without a host until ctx is cancelled.
func (s *Session) RunFree(ctx context.Context) error {
	err := engine.RunFree(ctx, s.loop)
	s.finish(exitReason(err, ExitCancelled))
	return err
}

func exitReason(err error, ok string) string {
	if err != nil {
		return ExitError
	}
	return ok
}

// finish logs the loop counters and stores the run. Storage failures are
// logged and otherwise ignored.
func (s *Session) finish(reason string) {
	st := s.loop.Stats()
	s.logger.Info("run finished",
		"reason", reason,
		"ticks", st.Ticks,
		"updates", st.Updates,
		"renders", st.Renders,
		"elapsed", st.Elapsed,
	)

	if s.opts.Store == nil {
		return
	}
	_, err := s.opts.Store.SaveRun(storage.Run{
		SceneID:    s.scene.ID(),
		Backend:    s.opts.Backend,
		UpdateRate: s.opts.Config.Loop.UpdateRate,
		Ticks:      st.Ticks,
		Updates:    st.Updates,
		Renders:    st.Renders,
		Simulated:  st.Simulated,
		Elapsed:    st.Elapsed,
		ExitReason: reason,
	})
	if err != nil {
		s.logger.Warn("could not save run", "error", err)
	}
}

// Scene returns the running scene.
func (s *Session) Scene() registry.Scene {
	return s.scene
}

// Stats returns the loop counters.
func (s *Session) Stats() engine.Stats {
	return s.loop.Stats()
}

// Headless presents nothing. Its physical size equals the surface size.
type Headless struct {
	W, H int
}

// Present discards the frame.
func (Headless) Present(*image.RGBA) error { return nil }

// InnerSize returns the configured size.
func (h Headless) InnerSize() (int, int) { return h.W, h.H }

// RunOnHost creates a surface on the host window, runs sceneID on it and
// returns when the host closes.
func RunOnHost(hc *host.Context, sceneID string, opts Options) error {
	// Restores the terminal if the run fails before the driver takes over.
	defer hc.Close()

	surface, err := host.NewSurface(hc, opts.Config.Window.Width, opts.Config.Window.Height)
	if err != nil {
		return err
	}
	sess, err := NewSession(sceneID, surface, opts)
	if err != nil {
		return err
	}
	return sess.RunWithHost(hc)
}
