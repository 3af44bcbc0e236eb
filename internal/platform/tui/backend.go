package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/pixelloop/internal/host"
)

// Default terminal size when the caller does not know it.
const (
	DefaultCols = 80
	DefaultRows = 24
)

// Source runs a Bubble Tea program and delivers its messages as host events.
type Source struct {
	model   Model
	program *tea.Program
}

// NewSource creates the program for window. opts are appended to the
// defaults (alternate screen, all-motion mouse), so callers can redirect
// input and output.
func NewSource(window *Window, redrawRate int, keys KeyMap, opts ...tea.ProgramOption) *Source {
	model := NewModel(window, redrawRate, keys)
	all := append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	}, opts...)
	return &Source{
		model:   model,
		program: tea.NewProgram(model, all...),
	}
}

// Run starts the program and blocks until fn answers host.Exit or the
// program ends. A program killed through its context counts as a normal end.
func (s *Source) Run(fn func(host.Event) host.ControlFlow) error {
	s.model.d.fn = fn
	if _, err := s.program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return fmt.Errorf("bubbletea program: %w", err)
	}
	return nil
}

// Send injects a message into the running program. It does not block once
// the program has finished.
func (s *Source) Send(msg tea.Msg) {
	s.program.Send(msg)
}

// Backend creates Bubble Tea host contexts.
type Backend struct {
	RedrawRate int
	Cols, Rows int // Terminal size in cells; zero selects 80x24
	Renderer   *lipgloss.Renderer
	Keys       *KeyMap
	Options    []tea.ProgramOption
}

// CreateWindow builds a window and its event source. The surface size does
// not affect the window; frames are scaled to whatever the terminal offers.
func (b Backend) CreateWindow(title string, width, height int) (*host.Context, error) {
	if b.RedrawRate <= 0 {
		return nil, fmt.Errorf("%w: redraw rate %d", host.ErrWindowCreate, b.RedrawRate)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: surface %dx%d", host.ErrWindowCreate, width, height)
	}

	cols, rows := b.Cols, b.Rows
	if cols <= 0 || rows <= 0 {
		cols, rows = DefaultCols, DefaultRows
	}
	keys := DefaultKeyMap()
	if b.Keys != nil {
		keys = *b.Keys
	}

	win := NewWindow(title, cols, rows, b.Renderer)
	src := NewSource(win, b.RedrawRate, keys, b.Options...)
	return host.NewContext(src, win), nil
}

var _ host.Backend = Backend{}
