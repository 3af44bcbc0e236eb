package host

import (
	"errors"
	"fmt"
	"io"

	"github.com/vovakirdan/pixelloop/internal/core"
)

var (
	// ErrWindowCreate wraps failures to open a host window.
	ErrWindowCreate = errors.New("host: cannot create window")

	// ErrContextConsumed is returned when a context is handed off twice.
	ErrContextConsumed = errors.New("host: context already handed off")
)

// EventSource delivers host events one at a time to fn until fn returns Exit
// or the source ends. Every call to fn happens on the goroutine that called Run.
type EventSource interface {
	Run(fn func(Event) ControlFlow) error
}

// Window is a presentation target with a title.
type Window interface {
	core.Presenter
	Title() string
}

// Backend opens host windows.
type Backend interface {
	CreateWindow(title string, width, height int) (*Context, error)
}

// Context bundles the event source and window of one run. It is created once
// at startup and handed off to a driver; after the handoff only the window
// stays reachable, through the surface built on it.
type Context struct {
	source   EventSource
	window   Window
	consumed bool
}

// NewContext bundles src and win.
func NewContext(src EventSource, win Window) *Context {
	return &Context{source: src, window: win}
}

// Window returns the context's window.
func (c *Context) Window() Window {
	return c.window
}

// Handoff releases the event source to its single consumer.
func (c *Context) Handoff() (EventSource, error) {
	if c.consumed {
		return nil, ErrContextConsumed
	}
	c.consumed = true
	return c.source, nil
}

// Close releases a source that was never handed off, restoring whatever the
// backend set up in CreateWindow. After a handoff the driver owns the source
// and Close does nothing. A closed context cannot be handed off.
func (c *Context) Close() error {
	if c.consumed {
		return nil
	}
	c.consumed = true
	if cl, ok := c.source.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}

// NewSurface creates a pixel surface of the given size presented in the
// context's window.
func NewSurface(c *Context, width, height int) (*core.PixelSurface, error) {
	s, err := core.NewPixelSurface(width, height, c.window)
	if err != nil {
		return nil, fmt.Errorf("create pixels surface: %w", err)
	}
	return s, nil
}
