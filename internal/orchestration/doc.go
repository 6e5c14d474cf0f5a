// Package orchestration runs batches of polynomial jobs concurrently against
// one engine, feeding progress to a reporter and collecting per-job results in
// input order. Presentation stays behind the ProgressReporter interface.
package orchestration
