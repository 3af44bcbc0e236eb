// Package core provides the pixel types shared by the engine loop, the host
// backends and the scenes. It has no dependency on any terminal library so the
// scheduler and the surface can be tested without a host.
package core

// Rect is an axis-aligned rectangle in surface pixels.
type Rect struct {
	X, Y int // Top-left corner
	W, H int
}

// NewRect creates a rectangle with the given origin and size.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the exclusive right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Within reports whether r lies entirely inside a width x height area
// anchored at the origin. Negative sizes never fit.
func (r Rect) Within(width, height int) bool {
	if r.W < 0 || r.H < 0 || r.X < 0 || r.Y < 0 {
		return false
	}
	return r.Right() <= width && r.Bottom() <= height
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
