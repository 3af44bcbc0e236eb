// Package capture writes surface frames to image files.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/bmp"
)

// Format is an image file format.
type Format string

const (
	PNG Format = "png"
	BMP Format = "bmp"
)

// ErrUnknownFormat is returned for a format other than PNG or BMP.
var ErrUnknownFormat = errors.New("capture: unknown format")

// ParseFormat validates a format name. An empty name selects PNG.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case "", PNG:
		return PNG, nil
	case BMP:
		return BMP, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFormat, name)
}

// Encode writes frame to w in format f.
func Encode(w io.Writer, frame image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, frame)
	case BMP:
		return bmp.Encode(w, frame)
	}
	return fmt.Errorf("%w %q", ErrUnknownFormat, f)
}

// Saver writes timestamped screenshots into a directory.
type Saver struct {
	Dir    string
	Format Format
	Now    func() time.Time
}

// NewSaver creates a saver for dir. An empty dir selects
// ~/.pixelloop/screenshots.
func NewSaver(dir string, f Format) (*Saver, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("capture: cannot get home directory: %w", err)
		}
		dir = filepath.Join(home, ".pixelloop", "screenshots")
	}
	if f == "" {
		f = PNG
	}
	return &Saver{Dir: dir, Format: f, Now: time.Now}, nil
}

// Save writes frame as <name>_<timestamp>.<format> and returns the path.
func (s *Saver) Save(name string, frame image.Image) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("capture: cannot create directory %s: %w", s.Dir, err)
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	filename := fmt.Sprintf("%s_%s.%s", name, now().Format("20060102_150405.000"), s.Format)
	path := filepath.Join(s.Dir, filename)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", fmt.Errorf("capture: cannot create %s: %w", path, err)
	}
	if err := Encode(f, frame, s.Format); err != nil {
		f.Close()
		return "", fmt.Errorf("capture: cannot encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("capture: cannot write %s: %w", path, err)
	}
	return path, nil
}
