//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/polycalc/internal/format"
	"github.com/agbru/polycalc/internal/orchestration"
	"github.com/agbru/polycalc/internal/ui"
)

const (
	// ProgressRefreshRate is how often the spinner suffix is redrawn.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width of the bar in characters.
	ProgressBarWidth = 30
)

// Spinner is the terminal animation shown while a batch runs.
type Spinner interface {
	// Start begins the animation.
	Start()
	// Stop halts the animation and clears its line.
	Stop()
	// UpdateSuffix replaces the text after the spinner glyph.
	UpdateSuffix(suffix string)
}

type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }
func (rs *realSpinner) Stop()  { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

// newSpinner is swapped out by tests.
var newSpinner = func(out io.Writer) Spinner {
	s := spinner.New(spinner.CharSets[14], ProgressRefreshRate, spinner.WithWriter(out))
	return &realSpinner{s}
}

// ProgressReporter renders batch progress with a spinner and a bar.
type ProgressReporter struct{}

var _ orchestration.ProgressReporter = ProgressReporter{}

// DisplayProgress implements orchestration.ProgressReporter.
func (ProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numJobs int, out io.Writer) {
	DisplayProgress(wg, progressChan, numJobs, out)
}

// DisplayProgress consumes progressChan until it is closed, redrawing the
// spinner suffix on every update and on a ticker.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numJobs int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numJobs)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	s := newSpinner(out)
	s.UpdateSuffix(FormatProgress(agg.Snapshot()))
	s.Start()
	defer s.Stop()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()
	for {
		select {
		case u, ok := <-progressChan:
			if !ok {
				return
			}
			s.UpdateSuffix(FormatProgress(agg.Update(u)))
		case <-ticker.C:
			s.UpdateSuffix(FormatProgress(agg.Snapshot()))
		}
	}
}

// FormatProgress renders the spinner suffix for p.
func FormatProgress(p orchestration.AggregatedProgress) string {
	line := " " + format.FormatProgressLine(p.Fraction, p.Done, p.Total, p.ETA, ProgressBarWidth)
	if p.Failed > 0 {
		line += fmt.Sprintf(" %s%d failed%s", ui.ColorRed(), p.Failed, ui.ColorReset())
	}
	return line
}
