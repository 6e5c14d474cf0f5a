package orchestration

import (
	"context"
	"io"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/polycalc/internal/calc"
	apperrors "github.com/agbru/polycalc/internal/errors"
	"github.com/agbru/polycalc/internal/logging"
	"github.com/agbru/polycalc/internal/metrics"
)

// TracerName is the instrumentation scope of the job spans.
const TracerName = "github.com/agbru/polycalc/internal/orchestration"

// JobResult is the outcome of one job.
type JobResult struct {
	// Index is the zero-based position of the job in the input.
	Index int
	// Lines are the output lines, one coefficient slice each.
	Lines [][]uint64
	// Duration is the time spent inside the engine.
	Duration time.Duration
	// Err is set when the job failed or never ran.
	Err error
}

// Options configures ExecuteJobs. The zero value runs with GOMAXPROCS
// workers, no metrics and no logging.
type Options struct {
	// Limit caps the number of jobs in flight. Zero or negative means GOMAXPROCS.
	Limit int
	// Metrics receives per-job observations. May be nil.
	Metrics *metrics.Metrics
	// Logger receives per-job debug lines and failures. May be nil.
	Logger logging.Logger
}

// ExecuteJobs runs every job through op on engine and returns one result
// per job, in input order.
//
// Jobs run on an errgroup bounded by opts.Limit. A failing job does not stop
// the others. When ctx ends, ExecuteJobs returns without waiting: jobs that
// had not finished carry ctx.Err(). An engine call already in progress cannot
// be interrupted; it completes in the background and its result is dropped.
func ExecuteJobs(ctx context.Context, engine calc.Engine, op calc.Operation, jobs []calc.Job, opts Options, reporter ProgressReporter, out io.Writer) []JobResult {
	if reporter == nil {
		reporter = NullProgressReporter{}
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	tracer := otel.Tracer(TracerName)

	var (
		mu       sync.Mutex
		closed   bool
		results  = make([]JobResult, len(jobs))
		finished = make([]bool, len(jobs))
	)
	// Each job sends exactly one update, so sends never block.
	progressChan := make(chan ProgressUpdate, len(jobs))
	finish := func(r JobResult) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		results[r.Index] = r
		finished[r.Index] = true
		progressChan <- ProgressUpdate{Job: r.Index, Failed: r.Err != nil, Duration: r.Duration}
	}

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, len(jobs), out)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := range jobs {
			idx := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					finish(JobResult{Index: idx, Err: err})
					return nil
				}
				finish(runJob(gctx, tracer, engine, op, jobs[idx], idx, opts))
				return nil
			})
		}
		_ = g.Wait()
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}

	mu.Lock()
	closed = true
	close(progressChan)
	snapshot := make([]JobResult, len(results))
	copy(snapshot, results)
	for i, ok := range finished {
		if !ok {
			snapshot[i] = JobResult{Index: i, Err: ctx.Err()}
		}
	}
	mu.Unlock()
	displayWg.Wait()
	return snapshot
}

func runJob(ctx context.Context, tracer trace.Tracer, engine calc.Engine, op calc.Operation, job calc.Job, idx int, opts Options) JobResult {
	_, span := tracer.Start(ctx, "polycalc."+op.Name)
	defer span.End()

	in := 0
	for _, operand := range job.Operands {
		in += len(operand)
	}
	span.SetAttributes(
		attribute.String("polycalc.op", op.Name),
		attribute.Int("polycalc.job", idx),
		attribute.Int("polycalc.input_coefficients", in),
		attribute.Int64("polycalc.modulus", int64(engine.Params().Modulus)),
	)

	opts.Metrics.IncrementActiveJobs()
	start := time.Now()
	lines, err := op.Run(engine, job)
	duration := time.Since(start)
	opts.Metrics.DecrementActiveJobs()
	opts.Metrics.ObserveJob(op.Name, duration, err)
	opts.Metrics.AddCoefficients("in", in)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if opts.Logger != nil {
			opts.Logger.Error("job failed", err, logging.Int("job", idx+1), logging.String("op", op.Name))
		}
		return JobResult{Index: idx, Duration: duration, Err: err}
	}

	outCount := 0
	for _, l := range lines {
		outCount += len(l)
	}
	opts.Metrics.AddCoefficients("out", outCount)
	span.SetAttributes(attribute.Int("polycalc.output_coefficients", outCount))
	span.SetStatus(codes.Ok, "")
	if opts.Logger != nil {
		opts.Logger.Debug("job finished",
			logging.Int("job", idx+1),
			logging.String("op", op.Name),
			logging.String("duration", duration.String()))
	}
	return JobResult{Index: idx, Lines: lines, Duration: duration}
}

// FirstError returns the failure of the lowest-indexed failed job wrapped in
// a CalculationError, or nil when every job succeeded.
func FirstError(results []JobResult) error {
	for _, r := range results {
		if r.Err != nil {
			return apperrors.CalculationError{Job: r.Index, Cause: r.Err}
		}
	}
	return nil
}

// Summary aggregates a batch for the details report.
type Summary struct {
	Jobs      int
	Succeeded int
	Failed    int
	// Busy is the sum of per-job engine time.
	Busy time.Duration
	// Slowest is the longest single job.
	Slowest time.Duration
	// SlowestJob is the zero-based index of the slowest job, -1 if none ran.
	SlowestJob int
}

// Summarize computes a Summary over results.
func Summarize(results []JobResult) Summary {
	s := Summary{Jobs: len(results), SlowestJob: -1}
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
		} else {
			s.Succeeded++
		}
		s.Busy += r.Duration
		if r.Duration > 0 && (s.SlowestJob < 0 || r.Duration > s.Slowest) {
			s.Slowest = r.Duration
			s.SlowestJob = r.Index
		}
	}
	return s
}
