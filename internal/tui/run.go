package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/polycalc/internal/calc"
	"github.com/agbru/polycalc/internal/orchestration"
)

// Batch is the work shown on the dashboard.
type Batch struct {
	Engine  calc.Engine
	Op      calc.Operation
	Jobs    []calc.Job
	Options orchestration.Options
	Version string
	// AutoQuit closes the dashboard as soon as the batch finishes instead
	// of waiting for the user.
	AutoQuit bool
}

// Run executes b while showing the dashboard and returns the results once
// the dashboard closes. Quitting before the batch finishes cancels it; the
// unfinished cases then carry the context error. Extra program options are
// appended after the defaults.
func Run(ctx context.Context, b Batch, opts ...tea.ProgramOption) ([]orchestration.JobResult, error) {
	initStyles()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ref := &programRef{}
	p := tea.NewProgram(NewModel(b, cancel), append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)
	ref.set(p)

	resultsCh := make(chan []orchestration.JobResult, 1)
	go func() {
		results := orchestration.ExecuteJobs(ctx, b.Engine, b.Op, b.Jobs, b.Options, ProgressReporter{ref: ref}, io.Discard)
		resultsCh <- results
		ref.Send(BatchDoneMsg{Results: results})
	}()

	_, err := p.Run()
	ref.set(nil)
	cancel()
	return <-resultsCh, err
}
