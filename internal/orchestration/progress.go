package orchestration

import (
	"time"

	"github.com/agbru/polycalc/internal/format"
)

// ProgressAggregator turns the per-job update stream into batch-level
// progress. Progress reporters use it so they agree on the arithmetic.
type ProgressAggregator struct {
	tracker *format.Tracker
	failed  int
}

// AggregatedProgress is the batch state after one update.
type AggregatedProgress struct {
	// Done is the number of finished jobs.
	Done int
	// Total is the batch size.
	Total int
	// Failed counts finished jobs that returned an error.
	Failed int
	// Fraction is Done/Total.
	Fraction float64
	// ETA estimates the time left; zero while unknown.
	ETA time.Duration
}

// NewProgressAggregator returns an aggregator for numJobs jobs, or nil when
// there is nothing to track.
func NewProgressAggregator(numJobs int) *ProgressAggregator {
	if numJobs <= 0 {
		return nil
	}
	return &ProgressAggregator{tracker: format.NewTracker(numJobs)}
}

// Update records one finished job.
func (a *ProgressAggregator) Update(u ProgressUpdate) AggregatedProgress {
	if u.Failed {
		a.failed++
	}
	fraction, eta := a.tracker.Add(1)
	return AggregatedProgress{
		Done:     a.tracker.Done(),
		Total:    a.tracker.Total(),
		Failed:   a.failed,
		Fraction: fraction,
		ETA:      eta,
	}
}

// Snapshot returns the current state without recording anything. Reporters
// call it on their refresh ticker.
func (a *ProgressAggregator) Snapshot() AggregatedProgress {
	return AggregatedProgress{
		Done:     a.tracker.Done(),
		Total:    a.tracker.Total(),
		Failed:   a.failed,
		Fraction: a.tracker.Fraction(),
		ETA:      a.tracker.ETA(),
	}
}

// DrainChannel discards every update until the channel is closed.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}
