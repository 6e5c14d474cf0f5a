package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme maps output roles to ANSI escape sequences.
type Theme struct {
	Name      string
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Accent    string
	Bold      string
	Underline string
	Reset     string

	// Palette drives the lipgloss styles.
	Palette Palette
}

// Palette is the lipgloss side of a Theme.
type Palette struct {
	Accent  lipgloss.TerminalColor
	Text    lipgloss.TerminalColor
	Dim     lipgloss.TerminalColor
	Success lipgloss.TerminalColor
	Error   lipgloss.TerminalColor
}

var (
	// DarkTheme is the default, tuned for dark backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;45m",
		Secondary: "\033[38;5;245m",
		Success:   "\033[38;5;83m",
		Warning:   "\033[38;5;221m",
		Error:     "\033[38;5;203m",
		Accent:    "\033[38;5;177m",
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
		Palette: Palette{
			Accent:  lipgloss.Color("#00D7FF"),
			Text:    lipgloss.Color("#E4E4E4"),
			Dim:     lipgloss.Color("#8A8A8A"),
			Success: lipgloss.Color("#5FFF5F"),
			Error:   lipgloss.Color("#FF5F5F"),
		},
	}

	// LightTheme uses darker tones for light backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;25m",
		Secondary: "\033[38;5;241m",
		Success:   "\033[38;5;28m",
		Warning:   "\033[38;5;130m",
		Error:     "\033[38;5;160m",
		Accent:    "\033[38;5;91m",
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
		Palette: Palette{
			Accent:  lipgloss.Color("#005FAF"),
			Text:    lipgloss.Color("#1C1C1C"),
			Dim:     lipgloss.Color("#626262"),
			Success: lipgloss.Color("#008700"),
			Error:   lipgloss.Color("#D70000"),
		},
	}

	// NoColorTheme emits no escape sequences at all.
	NoColorTheme = Theme{
		Name: "none",
		Palette: Palette{
			Accent:  lipgloss.NoColor{},
			Text:    lipgloss.NoColor{},
			Dim:     lipgloss.NoColor{},
			Success: lipgloss.NoColor{},
			Error:   lipgloss.NoColor{},
		},
	}

	themeMu      sync.RWMutex
	currentTheme = DarkTheme
)

// CurrentTheme returns the active theme.
func CurrentTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme. Tests use it to restore state.
func SetCurrentTheme(t Theme) {
	themeMu.Lock()
	defer themeMu.Unlock()
	currentTheme = t
}

// SetTheme activates a theme by name: "dark", "light" or "none". Unknown
// names select dark.
func SetTheme(name string) {
	switch name {
	case "light":
		SetCurrentTheme(LightTheme)
	case "none":
		SetCurrentTheme(NoColorTheme)
	default:
		SetCurrentTheme(DarkTheme)
	}
}

// InitTheme selects NoColorTheme when noColor is set or the NO_COLOR
// environment variable exists (https://no-color.org/), DarkTheme otherwise.
func InitTheme(noColor bool) {
	if noColor {
		SetCurrentTheme(NoColorTheme)
		return
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		SetCurrentTheme(NoColorTheme)
		return
	}
	SetCurrentTheme(DarkTheme)
}
