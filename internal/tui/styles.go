package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/polycalc/internal/ui"
)

var (
	panelStyle   lipgloss.Style
	titleStyle   lipgloss.Style
	dimStyle     lipgloss.Style
	labelStyle   lipgloss.Style
	valueStyle   lipgloss.Style
	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
	pausedStyle  lipgloss.Style
)

func init() {
	initStyles()
}

// initStyles rebuilds the styles from the current ui theme. Run calls it
// again since the theme is chosen after package init.
func initStyles() {
	p := ui.CurrentTheme().Palette
	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Dim).
		Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	dimStyle = lipgloss.NewStyle().Foreground(p.Dim)
	labelStyle = lipgloss.NewStyle().Foreground(p.Dim).Width(11)
	valueStyle = lipgloss.NewStyle().Foreground(p.Text)
	successStyle = lipgloss.NewStyle().Foreground(p.Success)
	errorStyle = lipgloss.NewStyle().Foreground(p.Error).Bold(true)
	pausedStyle = lipgloss.NewStyle().Foreground(p.Accent).Italic(true)
}
