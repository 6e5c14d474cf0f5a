// Package logging provides the logging interface shared by the polycalc
// driver packages. Components depend on Logger rather than on a concrete
// backend; ZerologAdapter is the production implementation and
// StdLoggerAdapter wraps the standard library logger for tests and
// embedding.
package logging
