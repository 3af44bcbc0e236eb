package core

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrOutOfRange is returned when a fill would touch pixels outside the surface.
	ErrOutOfRange = errors.New("core: pixel range out of bounds")

	// ErrSurfaceCreate is returned when a surface cannot be allocated.
	ErrSurfaceCreate = errors.New("core: cannot create surface")
)

// MaxSurfacePixels bounds width*height of a surface (256 MiB of RGBA).
const MaxSurfacePixels = 1 << 26

// RenderSurface is the drawing target the engine loop and the scenes work
// against. Only PixelSurface implements it today; the loop never depends on
// the concrete type.
type RenderSurface interface {
	// Width returns the surface width in pixels. It never changes.
	Width() int

	// Height returns the surface height in pixels. It never changes.
	Height() int

	// ClearScreen sets every pixel to c.
	ClearScreen(c Color)

	// Blit presents the current buffer through the host.
	Blit() error

	// InBounds returns (x, y) and true when the point lies on the surface.
	InBounds(x, y int) (int, int, bool)

	// PhysicalPosToSurfacePos maps a host position to surface pixels.
	PhysicalPosToSurfacePos(x, y float64) (int, int, bool)

	// SetRange fills the linear pixel indices [start, end) with c.
	SetRange(start, end int, c Color) error

	// FilledRect fills [sx, sx+w) x [sy, sy+h) with c, one row at a time.
	FilledRect(sx, sy, w, h int, c Color) error
}

// Presenter is the host side of a PixelSurface: it copies finished frames to
// the screen and reports the physical size used for pointer mapping.
type Presenter interface {
	Present(frame *image.RGBA) error
	InnerSize() (int, int)
}

// PixelSurface is a RenderSurface backed by a row-major RGBA byte buffer of
// exactly width*height*4 bytes.
type PixelSurface struct {
	width     int
	height    int
	frame     *image.RGBA
	presenter Presenter
}

// NewPixelSurface allocates a width x height buffer presented through p.
func NewPixelSurface(width, height int, p Presenter) (*PixelSurface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrSurfaceCreate, width, height)
	}
	// Divide rather than multiply so the check cannot overflow.
	if width > MaxSurfacePixels/height {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrSurfaceCreate, width, height, MaxSurfacePixels)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: no presenter", ErrSurfaceCreate)
	}

	return &PixelSurface{
		width:     width,
		height:    height,
		frame:     image.NewRGBA(image.Rect(0, 0, width, height)),
		presenter: p,
	}, nil
}

// Width returns the surface width in pixels.
func (s *PixelSurface) Width() int {
	return s.width
}

// Height returns the surface height in pixels.
func (s *PixelSurface) Height() int {
	return s.height
}

// Frame exposes the backing image. Callers must not write to it.
func (s *PixelSurface) Frame() *image.RGBA {
	return s.frame
}

// Get reads the pixel at (x, y). The caller guarantees the point is in range.
func (s *PixelSurface) Get(x, y int) Color {
	i := (y*s.width + x) * 4
	return Color(s.frame.Pix[i : i+4])
}

// Set writes the pixel at (x, y). The caller guarantees the point is in range.
func (s *PixelSurface) Set(x, y int, c Color) {
	i := (y*s.width + x) * 4
	copy(s.frame.Pix[i:i+4], c[:])
}

// ClearScreen sets every pixel to c.
func (s *PixelSurface) ClearScreen(c Color) {
	// The full range is always valid.
	_ = s.SetRange(0, s.width*s.height, c)
}

// Blit hands the buffer to the presenter.
func (s *PixelSurface) Blit() error {
	if err := s.presenter.Present(s.frame); err != nil {
		return fmt.Errorf("presenting frame: %w", err)
	}
	return nil
}

// InBounds returns the point unchanged with ok=true when it lies on the surface.
func (s *PixelSurface) InBounds(x, y int) (int, int, bool) {
	if !NewRect(0, 0, s.width, s.height).Contains(x, y) {
		return 0, 0, false
	}
	return x, y, true
}

// PhysicalPosToSurfacePos maps a position in the presenter's physical units
// onto surface pixels. The presenter stretches the frame over its whole inner
// area, so the mapping is a plain scale on each axis.
func (s *PixelSurface) PhysicalPosToSurfacePos(x, y float64) (int, int, bool) {
	pw, ph := s.presenter.InnerSize()
	if pw <= 0 || ph <= 0 {
		return 0, 0, false
	}
	if x < 0 || y < 0 || x >= float64(pw) || y >= float64(ph) {
		return 0, 0, false
	}

	px := int(x * float64(s.width) / float64(pw))
	py := int(y * float64(s.height) / float64(ph))
	return s.InBounds(px, py)
}

// SetRange fills the linear pixel indices [start, end) with c. A range that
// leaves the surface is rejected before anything is written.
func (s *PixelSurface) SetRange(start, end int, c Color) error {
	if start < 0 || end < start || end > s.width*s.height {
		return fmt.Errorf("%w: range [%d, %d) on %d pixels", ErrOutOfRange, start, end, s.width*s.height)
	}

	buf := s.frame.Pix[start*4 : end*4]
	for i := 0; i < len(buf); i += 4 {
		copy(buf[i:i+4], c[:])
	}
	return nil
}

// FilledRect fills the rectangle row by row. The whole rectangle must lie on
// the surface.
func (s *PixelSurface) FilledRect(sx, sy, w, h int, c Color) error {
	r := NewRect(sx, sy, w, h)
	if !r.Within(s.width, s.height) {
		return fmt.Errorf("%w: rect %dx%d at (%d, %d) on %dx%d surface",
			ErrOutOfRange, w, h, sx, sy, s.width, s.height)
	}

	for y := r.Y; y < r.Bottom(); y++ {
		row := y * s.width
		if err := s.SetRange(row+r.X, row+r.Right(), c); err != nil {
			return err
		}
	}
	return nil
}
