package app

import (
	"context"
	"errors"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/polycalc/internal/calc"
	"github.com/agbru/polycalc/internal/cli"
	apperrors "github.com/agbru/polycalc/internal/errors"
	"github.com/agbru/polycalc/internal/logging"
	"github.com/agbru/polycalc/internal/metrics"
	"github.com/agbru/polycalc/internal/orchestration"
	"github.com/agbru/polycalc/internal/sysmon"
	"github.com/agbru/polycalc/internal/tui"
)

// runCalculate reads every case, runs the batch and writes the results.
// Decoration, progress, details and metrics go to ErrWriter so that out
// carries only result lines.
func (a *Application) runCalculate(ctx context.Context, out io.Writer, logger *logging.ZerologAdapter) int {
	op, err := a.Registry.Get(a.Config.Op)
	if err != nil {
		return cli.DisplayError(a.ErrWriter, err)
	}
	engine, err := calc.NewEngine(a.Config.Modulus, a.Config.ToEngineOptions(logger.Zerolog())...)
	if err != nil {
		return cli.DisplayError(a.ErrWriter, apperrors.NewConfigError("%v", err))
	}

	jobs, err := a.readJobs(op)
	if err != nil {
		return cli.DisplayError(a.ErrWriter, err)
	}
	engine.PreWarm(maxOperandLen(jobs))

	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	info := cli.RunInfo{
		Op:      op.Name,
		Params:  engine.Params(),
		Jobs:    len(jobs),
		Limit:   a.Config.Jobs,
		Timeout: a.Config.Timeout,
	}
	var reporter orchestration.ProgressReporter = orchestration.NullProgressReporter{}
	progressOut := io.Discard
	if !a.Config.Quiet && !a.Config.TUI {
		cli.DisplayRunHeader(a.ErrWriter, info)
		reporter = cli.ProgressReporter{}
		progressOut = a.ErrWriter
	}

	var m *metrics.Metrics
	if a.Config.Metrics {
		m = metrics.NewMetrics()
	}
	collector := metrics.NewMemoryCollector()
	before := collector.Snapshot()
	start := time.Now()

	logger.Debug("batch started", logging.String("op", op.Name), logging.Int("cases", len(jobs)))
	execOpts := orchestration.Options{
		Limit:   a.Config.Jobs,
		Metrics: m,
		Logger:  logger,
	}
	var results []orchestration.JobResult
	if a.Config.TUI {
		// The dashboard owns the terminal; per-case log lines would tear it.
		execOpts.Logger = logging.NewZerologAdapter(zerolog.Nop())
		results, err = tui.Run(ctx, tui.Batch{
			Engine:  engine,
			Op:      op,
			Jobs:    jobs,
			Options: execOpts,
			Version: Version,
		})
		if err != nil {
			logger.Error("dashboard failed", err)
		}
	} else {
		results = orchestration.ExecuteJobs(ctx, engine, op, jobs, execOpts, reporter, progressOut)
	}
	wall := time.Since(start)
	logger.Debug("batch finished", logging.String("duration", wall.String()))

	runErr := orchestration.FirstError(results)
	if errors.Is(runErr, context.DeadlineExceeded) {
		runErr = apperrors.TimeoutError{Operation: op.Name, Limit: a.Config.Timeout}
	}

	if err := a.writeResults(out, results); err != nil && runErr == nil {
		runErr = err
	}

	if a.Config.Details {
		cli.DisplayDetails(a.ErrWriter, cli.Details{
			Info:    info,
			Summary: orchestration.Summarize(results),
			Wall:    wall,
			Memory:  collector.Snapshot().Since(before),
			System:  sysmon.Sample(),
		})
	}
	if m != nil {
		if err := m.WriteText(a.ErrWriter); err != nil {
			logger.Error("writing metrics", err)
		}
	}
	return cli.DisplayError(a.ErrWriter, runErr)
}

func (a *Application) readJobs(op calc.Operation) ([]calc.Job, error) {
	in, err := cli.OpenInput(a.Config.InputFile, a.In)
	if err != nil {
		return nil, apperrors.NewConfigError("%v", err)
	}
	defer in.Close()
	return cli.ReadJobs(in, op, cli.InputConfig{Precision: a.Config.Precision, Exponent: a.Config.Exponent})
}

func (a *Application) writeResults(out io.Writer, results []orchestration.JobResult) error {
	w, err := cli.OpenOutput(a.Config.OutputFile, out)
	if err != nil {
		return err
	}
	written, err := cli.WriteResults(w, results)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err == nil && a.Config.OutputFile != "" && !a.Config.Quiet {
		cli.DisplaySaved(a.ErrWriter, a.Config.OutputFile, written)
	}
	return err
}

// maxOperandLen returns the longest operand plus the precision of any job,
// the size the pools are warmed for.
func maxOperandLen(jobs []calc.Job) int {
	n := 0
	for _, j := range jobs {
		n = max(n, j.Precision)
		for _, o := range j.Operands {
			n = max(n, len(o))
		}
	}
	return n
}
