package ui

import "github.com/charmbracelet/lipgloss"

// HeaderStyle renders section titles.
func HeaderStyle() lipgloss.Style {
	p := CurrentTheme().Palette
	return lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
}

// LabelStyle renders the left column of key/value reports.
func LabelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme().Palette.Dim).Width(18)
}

// ValueStyle renders the right column of key/value reports.
func ValueStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme().Palette.Text)
}

// StatusStyle colors a status word by outcome.
func StatusStyle(ok bool) lipgloss.Style {
	p := CurrentTheme().Palette
	if ok {
		return lipgloss.NewStyle().Foreground(p.Success)
	}
	return lipgloss.NewStyle().Foreground(p.Error)
}

// BoxStyle frames a summary block.
func BoxStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(CurrentTheme().Palette.Accent).
		Padding(0, 1)
}

// KeyValue renders one aligned report row.
func KeyValue(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle().Render(label), ValueStyle().Render(value))
}
