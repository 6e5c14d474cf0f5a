package ui

// ANSI accessors for the active theme. Each returns "" under NoColorTheme.

func ColorRed() string       { return CurrentTheme().Error }
func ColorGreen() string     { return CurrentTheme().Success }
func ColorYellow() string    { return CurrentTheme().Warning }
func ColorCyan() string      { return CurrentTheme().Primary }
func ColorMagenta() string   { return CurrentTheme().Accent }
func ColorGrey() string      { return CurrentTheme().Secondary }
func ColorBold() string      { return CurrentTheme().Bold }
func ColorUnderline() string { return CurrentTheme().Underline }
func ColorReset() string     { return CurrentTheme().Reset }
