// Package engine implements the fixed-timestep scheduler that decouples
// simulation updates from rendering, and the drivers that advance it.
//
// The loop owns an application state S and a surface F. Every tick it
// measures the wall time since the previous tick, clamps it to MaxFrameTime,
// runs as many fixed update steps as the accumulated time allows, renders
// once, and then adds the tick's time to the accumulator.
package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pixelloop/internal/core"
	"github.com/vovakirdan/pixelloop/internal/host"
)

// MaxFrameTime caps the wall time a single tick may account for. A slow tick
// (debugger pause, blocking I/O) is treated as if exactly this much time had
// passed, which bounds the catch-up work of the following update steps.
const MaxFrameTime = 100 * time.Millisecond

// ErrZeroUpdateRate is returned by New when the update rate is not positive
// or so high that the step rounds to zero nanoseconds.
var ErrZeroUpdateRate = errors.New("engine: update rate must be positive")

// UpdateFunc advances the simulation by one fixed step.
type UpdateFunc[S any, F core.RenderSurface] func(state S, surface F) error

// RenderFunc draws the current state. dt is the clamped wall time since the
// previous tick.
type RenderFunc[S any, F core.RenderSurface] func(state S, surface F, dt time.Duration) error

// EventFunc observes a raw host event before the driver acts on it.
type EventFunc[S any, F core.RenderSurface] func(state S, surface F, ev host.Event) error

// Stats counts the work a loop has done since construction.
type Stats struct {
	Ticks     uint64
	Updates   uint64
	Renders   uint64
	Simulated time.Duration // Updates * update timestep
	Elapsed   time.Duration // Sum of clamped tick deltas
}

// Option configures a Loop.
type Option func(*options)

type options struct {
	now    func() time.Time
	logger *log.Logger
}

// WithClock replaces time.Now as the loop's time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLogger makes the loop report clamped ticks at debug level.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Loop is the accumulator scheduler. S is typically a pointer so update and
// render can mutate it. A Loop is not safe for concurrent use; it is driven
// from a single goroutine.
type Loop[S any, F core.RenderSurface] struct {
	accumulator    time.Duration
	currentTime    time.Time
	lastTime       time.Time
	updateTimestep time.Duration

	state   S
	surface F
	update  UpdateFunc[S, F]
	render  RenderFunc[S, F]

	now    func() time.Time
	logger *log.Logger
	stats  Stats
}

// New builds a loop running update updateRate times per second of wall time.
// The state and surface are owned by the loop from here on.
func New[S any, F core.RenderSurface](
	updateRate int,
	state S,
	surface F,
	update UpdateFunc[S, F],
	render RenderFunc[S, F],
	opts ...Option,
) (*Loop[S, F], error) {
	if updateRate <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrZeroUpdateRate, updateRate)
	}
	step := Timestep(updateRate)
	if step <= 0 {
		return nil, fmt.Errorf("%w: %d Hz rounds to a zero step", ErrZeroUpdateRate, updateRate)
	}
	if update == nil || render == nil {
		return nil, errors.New("engine: update and render functions are required")
	}

	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	start := o.now()
	return &Loop[S, F]{
		currentTime:    start,
		lastTime:       start,
		updateTimestep: step,
		state:          state,
		surface:        surface,
		update:         update,
		render:         render,
		now:            o.now,
		logger:         o.logger,
	}, nil
}

// Timestep returns the fixed step for a rate, rounded to the nearest nanosecond.
func Timestep(updateRate int) time.Duration {
	return time.Duration(math.Round(1e9 / float64(updateRate)))
}

// Tick advances the loop once. An update or render error aborts the tick
// and is returned; the accumulator is left as it was at the failure.
func (l *Loop[S, F]) Tick() error {
	l.lastTime = l.currentTime
	l.currentTime = l.now()
	dt := l.currentTime.Sub(l.lastTime)

	if dt > MaxFrameTime {
		if l.logger != nil {
			l.logger.Debug("clamping slow tick", "dt", dt, "max", MaxFrameTime)
		}
		dt = MaxFrameTime
	}
	// A clock that steps backwards must not drive the accumulator negative.
	if dt < 0 {
		dt = 0
	}

	// Strictly greater: an accumulator equal to one step waits for the next tick.
	for l.accumulator > l.updateTimestep {
		if err := l.update(l.state, l.surface); err != nil {
			return fmt.Errorf("running update step: %w", err)
		}
		l.accumulator -= l.updateTimestep
		l.stats.Updates++
		l.stats.Simulated += l.updateTimestep
	}

	if err := l.render(l.state, l.surface, dt); err != nil {
		return fmt.Errorf("running render step: %w", err)
	}
	l.stats.Renders++

	l.accumulator += dt
	l.stats.Ticks++
	l.stats.Elapsed += dt
	return nil
}

// UpdateTimestep returns the fixed simulation step.
func (l *Loop[S, F]) UpdateTimestep() time.Duration {
	return l.updateTimestep
}

// Accumulator returns the wall time not yet consumed by update steps.
func (l *Loop[S, F]) Accumulator() time.Duration {
	return l.accumulator
}

// State returns the loop's application state.
func (l *Loop[S, F]) State() S {
	return l.state
}

// Surface returns the loop's surface.
func (l *Loop[S, F]) Surface() F {
	return l.surface
}

// Stats returns the loop's counters.
func (l *Loop[S, F]) Stats() Stats {
	return l.stats
}
