package capture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/image/bmp"
)

func testFrame() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 2, color.RGBA{R: 255, G: 255, A: 255})
	return img
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in       string
		expected Format
		wantErr  bool
	}{
		{"", PNG, false},
		{"png", PNG, false},
		{"bmp", BMP, false},
		{"gif", "", true},
	}

	for _, tc := range tests {
		got, err := ParseFormat(tc.in)
		if tc.wantErr != (err != nil) {
			t.Errorf("ParseFormat(%q) error = %v", tc.in, err)
		}
		if tc.wantErr && !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("ParseFormat(%q) error = %v, expected ErrUnknownFormat", tc.in, err)
		}
		if got != tc.expected {
			t.Errorf("ParseFormat(%q) = %q, expected %q", tc.in, got, tc.expected)
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	frame := testFrame()

	for _, f := range []Format{PNG, BMP} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, frame, f); err != nil {
				t.Fatalf("Encode() failed: %v", err)
			}

			var img image.Image
			var err error
			if f == PNG {
				img, err = png.Decode(&buf)
			} else {
				img, err = bmp.Decode(&buf)
			}
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
				t.Errorf("bounds = %v, expected 4x3", img.Bounds())
			}
			r, g, b, _ := img.At(1, 2).RGBA()
			if r>>8 != 255 || g>>8 != 255 || b>>8 != 0 {
				t.Errorf("pixel (1, 2) = %d %d %d, expected yellow", r>>8, g>>8, b>>8)
			}
		})
	}
}

func TestSaverSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s, err := NewSaver(dir, PNG)
	if err != nil {
		t.Fatalf("NewSaver() failed: %v", err)
	}
	s.Now = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC) }

	path, err := s.Save("bounce", testFrame())
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if filepath.Base(path) != "bounce_20240301_123045.000.png" {
		t.Errorf("file name = %q", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading screenshot: %v", err)
	}
	if !strings.HasPrefix(string(data), "\x89PNG") {
		t.Error("screenshot is not a PNG")
	}
}

func TestNewSaverDefaultDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := NewSaver("", "")
	if err != nil {
		t.Fatalf("NewSaver() failed: %v", err)
	}
	if s.Dir != filepath.Join(home, ".pixelloop", "screenshots") {
		t.Errorf("Dir = %q", s.Dir)
	}
	if s.Format != PNG {
		t.Errorf("Format = %q, expected png", s.Format)
	}
}
