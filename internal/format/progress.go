package format

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// MaxETA caps the remaining-time estimate.
const MaxETA = 24 * time.Hour

// Tracker counts finished jobs out of a known total and estimates the time
// left from the average completion rate so far. It is safe for concurrent use.
type Tracker struct {
	mu    sync.Mutex
	total int
	done  int
	start time.Time
	now   func() time.Time
}

// NewTracker returns a tracker for total jobs, started now.
func NewTracker(total int) *Tracker {
	return &Tracker{total: total, start: time.Now(), now: time.Now}
}

// Add records n more finished jobs and returns the new fraction and ETA.
func (t *Tracker) Add(n int) (float64, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done += n
	if t.done > t.total {
		t.done = t.total
	}
	return t.fractionLocked(), t.etaLocked()
}

// Done returns the number of finished jobs.
func (t *Tracker) Done() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

// Total returns the number of jobs being tracked.
func (t *Tracker) Total() int { return t.total }

// Fraction returns done/total in [0, 1]. An empty tracker reports 1.
func (t *Tracker) Fraction() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fractionLocked()
}

// ETA returns the estimated time until every job has finished, or zero
// while no job has finished yet.
func (t *Tracker) ETA() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.etaLocked()
}

func (t *Tracker) fractionLocked() float64 {
	if t.total <= 0 {
		return 1
	}
	return float64(t.done) / float64(t.total)
}

func (t *Tracker) etaLocked() time.Duration {
	if t.done == 0 || t.done >= t.total {
		return 0
	}
	elapsed := t.now().Sub(t.start)
	perJob := elapsed / time.Duration(t.done)
	eta := perJob * time.Duration(t.total-t.done)
	if eta > MaxETA || eta < 0 {
		return MaxETA
	}
	return eta
}

// ProgressBar renders a bar of the given width with the fraction filled.
// Fractions are clamped to [0, 1].
func ProgressBar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	fraction = min(max(fraction, 0), 1)
	filled := int(fraction * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// FormatProgressLine renders "bar  42.0% (21/50) ETA: 3s".
func FormatProgressLine(fraction float64, done, total int, eta time.Duration, width int) string {
	return fmt.Sprintf("%s %5.1f%% (%d/%d) ETA: %s",
		ProgressBar(fraction, width), fraction*100, done, total, FormatETA(eta))
}
