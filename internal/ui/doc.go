// Package ui holds the terminal palette: ANSI color accessors for plain
// fmt output and lipgloss styles for headers and summary boxes. The active
// theme is process-wide and honors NO_COLOR.
package ui
