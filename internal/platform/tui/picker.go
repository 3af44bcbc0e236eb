package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/pixelloop/internal/registry"
)

// PickerTheme holds the scene picker styles.
type PickerTheme struct {
	Title       lipgloss.Style
	Item        lipgloss.Style
	ItemActive  lipgloss.Style
	Description lipgloss.Style
}

// DefaultPickerTheme returns the default picker styles.
func DefaultPickerTheme() PickerTheme {
	return PickerTheme{
		Title:       lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		Item:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		ItemActive:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Description: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// PickerKeyMap defines the picker bindings.
type PickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k PickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultPickerKeyMap returns default key bindings.
func DefaultPickerKeyMap() PickerKeyMap {
	return PickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "run"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// PickerModel is the Bubble Tea model for the scene picker.
type PickerModel struct {
	scenes   []registry.SceneInfo
	cursor   int
	width    int
	keys     PickerKeyMap
	help     help.Model
	theme    PickerTheme
	selected string
	quitting bool
}

// NewPickerModel lists the registered scenes with the cursor on current.
func NewPickerModel(current string) PickerModel {
	scenes := registry.List()
	m := PickerModel{
		scenes: scenes,
		keys:   DefaultPickerKeyMap(),
		help:   help.New(),
		theme:  DefaultPickerTheme(),
	}
	for i, s := range scenes {
		if s.ID == current {
			m.cursor = i
		}
	}
	return m
}

// Init implements tea.Model.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.scenes)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Select):
			if len(m.scenes) > 0 {
				m.selected = m.scenes[m.cursor].ID
				return m, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	}
	return m, nil
}

// View implements tea.Model.
func (m PickerModel) View() string {
	if m.quitting || m.selected != "" {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(m.center(m.theme.Title.Render("P I X E L   L O O P")))
	b.WriteString("\n\n")
	b.WriteString(m.center(m.theme.Description.Render("Select a scene")))
	b.WriteString("\n\n")

	for i, s := range m.scenes {
		line := "  " + s.Title
		style := m.theme.Item
		if i == m.cursor {
			line = "> " + s.Title
			style = m.theme.ItemActive
		}
		b.WriteString(m.center(style.Render(line)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.center(m.help.View(m.keys)))
	b.WriteString("\n")
	return b.String()
}

// center pads s to the middle of the terminal.
func (m PickerModel) center(s string) string {
	w := lipgloss.Width(s)
	if w >= m.width {
		return s
	}
	return strings.Repeat(" ", (m.width-w)/2) + s
}

// Selected returns the chosen scene ID, or "" if the picker was closed.
func (m PickerModel) Selected() string {
	return m.selected
}

// RunPicker shows the scene picker and returns the chosen scene, or "" when
// the user quit.
func RunPicker(current string, opts ...tea.ProgramOption) (string, error) {
	all := append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	final, err := tea.NewProgram(NewPickerModel(current), all...).Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(PickerModel)
	if !ok {
		return "", nil
	}
	return m.Selected(), nil
}
