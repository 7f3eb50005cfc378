package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/gosuri/uitable"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

const barWidth = 20

// progressBar renders percent (0-100) as a fixed width bar.
func progressBar(percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * barWidth / 100
	return okStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", barWidth-filled))
}

func newTable() *uitable.Table {
	tbl := uitable.New()
	tbl.MaxColWidth = 48
	tbl.Separator = "  "
	return tbl
}

func check(ok bool) string {
	if ok {
		return okStyle.Render("✓")
	}
	return dimStyle.Render("·")
}
