// Package format renders durations, counts, progress bars and coefficient
// lines for terminal output. It has no dependency on the arithmetic packages.
package format
