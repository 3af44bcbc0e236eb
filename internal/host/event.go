// Package host defines the contract between the engine drivers and a host
// windowing backend: the events a backend delivers, the window it presents
// to, and the context that bundles both for a single run.
package host

import "fmt"

// Event is a single host event. The set is closed; backends translate their
// native events into these types.
type Event interface {
	isEvent()
}

// RedrawRequested is delivered once per host redraw cycle. It drives one
// engine tick.
type RedrawRequested struct{}

// CloseRequested asks the run to end.
type CloseRequested struct{}

// CursorMoved reports the pointer position in the window's physical units.
type CursorMoved struct {
	X, Y float64
}

// MouseButton identifies a pointer button.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

func (b MouseButton) String() string {
	switch b {
	case MouseLeft:
		return "left"
	case MouseRight:
		return "right"
	case MouseMiddle:
		return "middle"
	default:
		return fmt.Sprintf("button(%d)", int(b))
	}
}

// MouseInput reports a button state change.
type MouseInput struct {
	Button  MouseButton
	Pressed bool
}

// KeyInput reports a key press using Bubble Tea style names ("a", "enter",
// "ctrl+s").
type KeyInput struct {
	Key string
}

// Resized reports a new physical window size.
type Resized struct {
	Width, Height int
}

func (RedrawRequested) isEvent() {}
func (CloseRequested) isEvent()  {}
func (CursorMoved) isEvent()     {}
func (MouseInput) isEvent()      {}
func (KeyInput) isEvent()        {}
func (Resized) isEvent()         {}

// ControlFlow is the answer an event callback gives its source.
type ControlFlow int

const (
	// Continue keeps the source delivering events.
	Continue ControlFlow = iota
	// Exit stops the source; Run returns after the current event.
	Exit
)
