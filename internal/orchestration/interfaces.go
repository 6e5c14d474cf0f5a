package orchestration

import (
	"io"
	"sync"
	"time"
)

// ProgressUpdate is sent once per finished job.
type ProgressUpdate struct {
	// Job is the zero-based index of the job that finished.
	Job int
	// Failed is true when the job returned an error.
	Failed bool
	// Duration is the job's wall time.
	Duration time.Duration
}

// ProgressReporter displays progress while a batch runs.
//
// DisplayProgress is started in its own goroutine and must return once
// progressChan is closed, calling wg.Done on the way out.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numJobs int, out io.Writer)
}

// ProgressReporterFunc adapts a function to ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numJobs int, out io.Writer)

// DisplayProgress calls f.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numJobs int, out io.Writer) {
	f(wg, progressChan, numJobs, out)
}

// NullProgressReporter drains the channel without output. Used in quiet mode.
type NullProgressReporter struct{}

// DisplayProgress drains progressChan.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	for range progressChan {
	}
}
