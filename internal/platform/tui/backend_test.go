package tui

import (
	"errors"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/pixelloop/internal/host"
)

func TestBackendCreateWindow(t *testing.T) {
	hc, err := Backend{RedrawRate: 60, Renderer: trueColorRenderer()}.CreateWindow("Pixel Loop", 640, 480)
	if err != nil {
		t.Fatalf("CreateWindow() failed: %v", err)
	}
	if hc.Window().Title() != "Pixel Loop" {
		t.Errorf("Title() = %q", hc.Window().Title())
	}
	if cols, rows := hc.Window().InnerSize(); cols != DefaultCols || rows != DefaultRows {
		t.Errorf("InnerSize() = %dx%d, expected the 80x24 default", cols, rows)
	}
}

func TestBackendCreateWindowErrors(t *testing.T) {
	tests := []struct {
		name string
		b    Backend
		w, h int
	}{
		{"no redraw rate", Backend{}, 640, 480},
		{"empty surface", Backend{RedrawRate: 60}, 0, 480},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.b.CreateWindow("x", tc.w, tc.h); !errors.Is(err, host.ErrWindowCreate) {
				t.Errorf("CreateWindow() error = %v, expected ErrWindowCreate", err)
			}
		})
	}
}

func TestSourceRunUntilExit(t *testing.T) {
	win := NewWindow("test", 10, 5, trueColorRenderer())
	src := NewSource(win, 200, DefaultKeyMap(),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)

	redraws := 0
	done := make(chan error, 1)
	go func() {
		done <- src.Run(func(ev host.Event) host.ControlFlow {
			if _, ok := ev.(host.RedrawRequested); ok {
				redraws++
				if redraws == 3 {
					return host.Exit
				}
			}
			return host.Continue
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after Exit")
	}
	if redraws != 3 {
		t.Errorf("redraws = %d, expected 3", redraws)
	}
}
