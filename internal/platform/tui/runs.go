package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/pixelloop/internal/storage"
)

// runColumns lays out one recorded run per row.
var runColumns = []table.Column{
	{Title: "#", Width: 5},
	{Title: "Scene", Width: 10},
	{Title: "Backend", Width: 9},
	{Title: "Rate", Width: 6},
	{Title: "Updates", Width: 9},
	{Title: "Renders", Width: 9},
	{Title: "FPS", Width: 7},
	{Title: "Exit", Width: 10},
	{Title: "Date", Width: 16},
}

// RunRows formats runs as table rows, newest first as given.
func RunRows(runs []storage.Run) []table.Row {
	rows := make([]table.Row, 0, len(runs))
	for _, r := range runs {
		fps := 0.0
		if r.Elapsed > 0 {
			fps = float64(r.Renders) / r.Elapsed.Seconds()
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", r.ID),
			r.SceneID,
			r.Backend,
			fmt.Sprintf("%d", r.UpdateRate),
			fmt.Sprintf("%d", r.Updates),
			fmt.Sprintf("%d", r.Renders),
			fmt.Sprintf("%.1f", fps),
			r.ExitReason,
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return rows
}

// RunsTable renders runs as a static table.
func RunsTable(runs []storage.Run) string {
	t := table.New(
		table.WithColumns(runColumns),
		table.WithRows(RunRows(runs)),
		table.WithHeight(len(runs)+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	// Nothing is focused in a printed table.
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)

	return t.View()
}

// SceneSummary describes aggregated scene statistics in one line.
func SceneSummary(st *storage.SceneStats) string {
	if st == nil || st.Runs == 0 {
		return "no runs recorded"
	}
	last := "never"
	if !st.LastRun.IsZero() {
		last = st.LastRun.Local().Format("2006-01-02 15:04")
	}
	return fmt.Sprintf("%d runs, %s total, %d updates, %.1f renders/s, last %s",
		st.Runs,
		st.TotalElapsed.Round(time.Millisecond),
		st.TotalUpdates,
		st.AvgRenderRate(),
		last,
	)
}
