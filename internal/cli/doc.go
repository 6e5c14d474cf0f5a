// Package cli implements the terminal side of polycalc: parsing input cases,
// writing result lines, the progress spinner, the -details report, shell
// completion and the interactive REPL.
package cli
