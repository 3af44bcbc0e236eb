package tui

import (
	"image"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"

	"github.com/vovakirdan/pixelloop/internal/core"
)

// halfBlock draws the top pixel of a cell in the foreground colour and the
// bottom pixel in the background colour.
const halfBlock = "▀"

// maxStyles bounds the style cache; it is dropped when full.
const maxStyles = 4096

type cellColors struct {
	top, bottom core.Color
}

// Window is a terminal window. Its physical units are terminal cells, and
// each cell shows two vertically stacked pixels of the scaled frame.
type Window struct {
	title    string
	renderer *lipgloss.Renderer

	mu     sync.Mutex
	cols   int
	rows   int
	scaled *image.RGBA
	styles map[cellColors]lipgloss.Style
	view   string
}

// NewWindow creates a window of cols x rows cells. A nil renderer selects the
// lipgloss default renderer.
func NewWindow(title string, cols, rows int, r *lipgloss.Renderer) *Window {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &Window{
		title:    title,
		renderer: r,
		cols:     max(cols, 0),
		rows:     max(rows, 0),
		styles:   make(map[cellColors]lipgloss.Style),
	}
}

// Title returns the window title.
func (w *Window) Title() string {
	return w.title
}

// InnerSize returns the size in cells.
func (w *Window) InnerSize() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cols, w.rows
}

// Resize changes the size in cells. The next Present uses it.
func (w *Window) Resize(cols, rows int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cols, w.rows = max(cols, 0), max(rows, 0)
}

// Present scales frame over the whole window and stores the rendered cells
// for View. A window with no cells presents nothing.
func (w *Window) Present(frame *image.RGBA) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cols == 0 || w.rows == 0 {
		w.view = ""
		return nil
	}

	bounds := image.Rect(0, 0, w.cols, w.rows*2)
	if w.scaled == nil || w.scaled.Bounds() != bounds {
		w.scaled = image.NewRGBA(bounds)
	}
	draw.NearestNeighbor.Scale(w.scaled, bounds, frame, frame.Bounds(), draw.Src, nil)

	w.view = w.renderCells()
	return nil
}

// renderCells converts the scaled frame to styled half-block rows.
// Groups adjacent cells with the same colours to minimize ANSI escape sequences.
func (w *Window) renderCells() string {
	var sb strings.Builder
	sb.Grow(w.cols*w.rows*4 + w.rows)

	for y := 0; y < w.rows; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < w.cols {
			start := w.cellAt(x, y)
			n := 0
			for x < w.cols && w.cellAt(x, y) == start {
				n++
				x++
			}
			sb.WriteString(w.style(start).Render(strings.Repeat(halfBlock, n)))
		}
	}
	return sb.String()
}

func (w *Window) cellAt(x, y int) cellColors {
	return cellColors{
		top:    pixelAt(w.scaled, x, y*2),
		bottom: pixelAt(w.scaled, x, y*2+1),
	}
}

func pixelAt(img *image.RGBA, x, y int) core.Color {
	off := img.PixOffset(x, y)
	c, _ := core.FromBytes(img.Pix[off : off+4])
	return c
}

func (w *Window) style(c cellColors) lipgloss.Style {
	if s, ok := w.styles[c]; ok {
		return s
	}
	if len(w.styles) >= maxStyles {
		clear(w.styles)
	}
	s := w.renderer.NewStyle().
		Foreground(lipgloss.Color(c.top.Hex())).
		Background(lipgloss.Color(c.bottom.Hex()))
	w.styles[c] = s
	return s
}

// View returns the cells rendered by the last Present.
func (w *Window) View() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.view
}
