package tui

import (
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/polycalc/internal/orchestration"
)

// sender is the part of *tea.Program the bridge needs.
type sender interface {
	Send(msg tea.Msg)
}

// programRef lets goroutines started before the program runs send to it.
// Bubbletea copies the model on every Update, so the model cannot hold the
// program itself.
type programRef struct {
	mu sync.RWMutex
	p  sender
}

func (r *programRef) set(p sender) {
	r.mu.Lock()
	r.p = p
	r.mu.Unlock()
}

// Send forwards msg, or drops it when no program is attached.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.p
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// ProgressReporter forwards batch progress to the dashboard.
type ProgressReporter struct {
	ref *programRef
}

var _ orchestration.ProgressReporter = ProgressReporter{}

// DisplayProgress converts every update into a JobDoneMsg.
func (r ProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numJobs int, _ io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numJobs)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}
	for u := range progressChan {
		r.ref.Send(JobDoneMsg{Update: u, Progress: agg.Update(u)})
	}
}
