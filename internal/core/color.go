package core

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrShortColor is returned by FromBytes when fewer than 4 bytes are supplied.
var ErrShortColor = errors.New("core: color needs 4 bytes")

// Color is a single pixel value, packed in the order the surface buffer
// stores it: red, green, blue, alpha.
type Color [4]byte

// Colors used by the demo scenes.
var (
	Black  = RGB(0, 0, 0)
	White  = RGB(255, 255, 255)
	Red    = RGB(255, 0, 0)
	Yellow = RGB(255, 255, 0)
)

// FromBytes builds a color from the first 4 bytes of b.
func FromBytes(b []byte) (Color, error) {
	if len(b) < 4 {
		return Color{}, fmt.Errorf("%w: got %d", ErrShortColor, len(b))
	}
	return Color{b[0], b[1], b[2], b[3]}, nil
}

// RGBA builds a color from its four channels.
func RGBA(r, g, b, a byte) Color {
	return Color{r, g, b, a}
}

// RGB builds a fully opaque color.
func RGB(r, g, b byte) Color {
	return RGBA(r, g, b, 255)
}

// Bytes returns the packed representation written into pixel buffers.
func (c Color) Bytes() [4]byte {
	return c
}

func (c Color) R() byte { return c[0] }
func (c Color) G() byte { return c[1] }
func (c Color) B() byte { return c[2] }
func (c Color) A() byte { return c[3] }

// NRGBA adapts the color to the image/color model.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}

// Hex formats the color as #rrggbb, dropping alpha.
// Terminal presenters use it for truecolor styles.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// ParseHex parses "#rgb" or "#rrggbb" into an opaque color.
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB(r, g, b), nil
}

// HSV builds an opaque color from hue in degrees and saturation and value
// in [0, 1].
func HSV(h, s, v float64) Color {
	r, g, b := colorful.Hsv(h, s, v).Clamped().RGB255()
	return RGB(r, g, b)
}
