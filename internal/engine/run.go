package engine

import (
	"context"
	"fmt"

	"github.com/vovakirdan/pixelloop/internal/core"
	"github.com/vovakirdan/pixelloop/internal/host"
)

// RunFree ticks the loop as fast as it can with no host attached. It returns
// the first tick error, or nil once ctx is cancelled.
func RunFree[S any, F core.RenderSurface](ctx context.Context, l *Loop[S, F]) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := l.Tick(); err != nil {
			return fmt.Errorf("run next engine loop: %w", err)
		}
	}
}

// RunWithHost binds the loop to the host context's event source and blocks
// until the host stops delivering events. Every event goes to handle first,
// so input is observed at host granularity; a RedrawRequested then advances
// the loop by one tick and a CloseRequested ends the run.
//
// An error from handle or from a tick stops the source and is returned. The
// caller treats it as fatal.
func RunWithHost[S any, F core.RenderSurface](hc *host.Context, l *Loop[S, F], handle EventFunc[S, F]) error {
	src, err := hc.Handoff()
	if err != nil {
		return err
	}

	var runErr error
	srcErr := src.Run(func(ev host.Event) host.ControlFlow {
		if handle != nil {
			if err := handle(l.state, l.surface, ev); err != nil {
				runErr = fmt.Errorf("handling host event: %w", err)
				return host.Exit
			}
		}

		switch ev.(type) {
		case host.RedrawRequested:
			if err := l.Tick(); err != nil {
				runErr = fmt.Errorf("running engine tick: %w", err)
				return host.Exit
			}
		case host.CloseRequested:
			return host.Exit
		}
		return host.Continue
	})

	if runErr != nil {
		return runErr
	}
	if srcErr != nil {
		return fmt.Errorf("host event source: %w", srcErr)
	}
	return nil
}
