package orchestration

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/agbru/polycalc/internal/calc"
	apperrors "github.com/agbru/polycalc/internal/errors"
	"github.com/agbru/polycalc/internal/field"
	"github.com/agbru/polycalc/internal/metrics"
)

func newTestEngine(t *testing.T) calc.Engine {
	t.Helper()
	e, err := calc.NewEngine(field.Default{}.Modulus())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func mustOp(t *testing.T, name string) calc.Operation {
	t.Helper()
	op, err := calc.NewRegistry().Get(name)
	if err != nil {
		t.Fatalf("Get(%q): %v", name, err)
	}
	return op
}

func mulJobs(n int) []calc.Job {
	jobs := make([]calc.Job, n)
	for i := range jobs {
		jobs[i] = calc.Job{Operands: [][]int64{{1, int64(i)}, {1, 1}}}
	}
	return jobs
}

func TestExecuteJobsPreservesOrder(t *testing.T) {
	t.Parallel()
	engine := newTestEngine(t)
	jobs := mulJobs(20)

	results := ExecuteJobs(context.Background(), engine, mustOp(t, "mul"), jobs, Options{Limit: 3}, NullProgressReporter{}, io.Discard)

	if len(results) != len(jobs) {
		t.Fatalf("got %d results, want %d", len(results), len(jobs))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Fatalf("job %d: %v", i, r.Err)
		}
		if r.Index != i {
			t.Errorf("results[%d].Index = %d", i, r.Index)
		}
		// (1 + i x)(1 + x) = 1 + (i+1) x + i x^2
		want := []uint64{1, uint64(i + 1), uint64(i)}
		if i == 0 {
			want = []uint64{1, 1}
		}
		got := r.Lines[0]
		if len(got) != len(want) {
			t.Fatalf("job %d: got %v, want %v", i, got, want)
		}
		for k := range want {
			if got[k] != want[k] {
				t.Errorf("job %d: got %v, want %v", i, got, want)
				break
			}
		}
	}
	if err := FirstError(results); err != nil {
		t.Errorf("FirstError() = %v, want nil", err)
	}
}

func TestExecuteJobsFailureIsolated(t *testing.T) {
	t.Parallel()
	engine := newTestEngine(t)
	jobs := []calc.Job{
		{Operands: [][]int64{{1, 2}}, Precision: 3},
		{Operands: [][]int64{{0, 1}}, Precision: 3},
		{Operands: [][]int64{{0, 5}}, Precision: 3},
	}

	results := ExecuteJobs(context.Background(), engine, mustOp(t, "inv"), jobs, Options{}, nil, io.Discard)

	if results[0].Err != nil {
		t.Errorf("job 0: unexpected error %v", results[0].Err)
	}
	for _, i := range []int{1, 2} {
		if !errors.Is(results[i].Err, apperrors.ErrDivisionByZero) {
			t.Errorf("job %d: err = %v, want ErrDivisionByZero", i, results[i].Err)
		}
	}

	err := FirstError(results)
	var calcErr apperrors.CalculationError
	if !errors.As(err, &calcErr) || calcErr.Job != 1 {
		t.Fatalf("FirstError() = %v, want CalculationError for job 1", err)
	}
	if code := apperrors.ExitCodeFor(err); code != apperrors.ExitErrorArithmetic {
		t.Errorf("ExitCodeFor = %d, want %d", code, apperrors.ExitErrorArithmetic)
	}

	s := Summarize(results)
	if s.Jobs != 3 || s.Succeeded != 1 || s.Failed != 2 {
		t.Errorf("Summarize() = %+v", s)
	}
}

func TestExecuteJobsEmpty(t *testing.T) {
	t.Parallel()
	results := ExecuteJobs(context.Background(), newTestEngine(t), mustOp(t, "mul"), nil, Options{}, NullProgressReporter{}, io.Discard)
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
	if s := Summarize(results); s.SlowestJob != -1 {
		t.Errorf("SlowestJob = %d, want -1", s.SlowestJob)
	}
}

func TestExecuteJobsCanceledBeforeStart(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := ExecuteJobs(ctx, newTestEngine(t), mustOp(t, "mul"), mulJobs(5), Options{Limit: 1}, NullProgressReporter{}, io.Discard)

	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("job %d: err = %v, want context.Canceled", i, r.Err)
		}
	}
	if code := apperrors.ExitCodeFor(FirstError(results)); code != apperrors.ExitErrorCanceled {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorCanceled)
	}
}

func TestExecuteJobsDeadlineDoesNotWaitForRunningJob(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	defer close(release)
	blocking := calc.Operation{
		Name:  "block",
		Arity: 1,
		Exec: func(calc.Engine, calc.Job) ([][]uint64, error) {
			<-release
			return nil, nil
		},
	}
	jobs := make([]calc.Job, 3)
	for i := range jobs {
		jobs[i] = calc.Job{Operands: [][]int64{{1}}}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	results := ExecuteJobs(ctx, newTestEngine(t), blocking, jobs, Options{Limit: 1}, NullProgressReporter{}, io.Discard)
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("ExecuteJobs took %v after the deadline", elapsed)
	}

	for i, r := range results {
		if !errors.Is(r.Err, context.DeadlineExceeded) {
			t.Errorf("job %d: err = %v, want DeadlineExceeded", i, r.Err)
		}
	}
	if code := apperrors.ExitCodeFor(FirstError(results)); code != apperrors.ExitErrorTimeout {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorTimeout)
	}
}

func TestExecuteJobsRespectsLimit(t *testing.T) {
	t.Parallel()
	var inFlight, peak atomic.Int32
	op := calc.Operation{
		Name:  "probe",
		Arity: 1,
		Exec: func(calc.Engine, calc.Job) ([][]uint64, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			inFlight.Add(-1)
			return [][]uint64{{1}}, nil
		},
	}
	jobs := make([]calc.Job, 16)
	for i := range jobs {
		jobs[i] = calc.Job{Operands: [][]int64{{1}}}
	}

	ExecuteJobs(context.Background(), newTestEngine(t), op, jobs, Options{Limit: 2}, NullProgressReporter{}, io.Discard)

	if p := peak.Load(); p > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", p)
	}
}

func TestExecuteJobsReportsProgress(t *testing.T) {
	t.Parallel()
	var (
		mu      sync.Mutex
		updates []ProgressUpdate
		total   int
	)
	reporter := ProgressReporterFunc(func(wg *sync.WaitGroup, ch <-chan ProgressUpdate, n int, _ io.Writer) {
		defer wg.Done()
		mu.Lock()
		total = n
		mu.Unlock()
		for u := range ch {
			mu.Lock()
			updates = append(updates, u)
			mu.Unlock()
		}
	})

	ExecuteJobs(context.Background(), newTestEngine(t), mustOp(t, "mul"), mulJobs(7), Options{Limit: 2}, reporter, io.Discard)

	mu.Lock()
	defer mu.Unlock()
	if total != 7 {
		t.Errorf("numJobs = %d, want 7", total)
	}
	if len(updates) != 7 {
		t.Fatalf("got %d updates, want 7", len(updates))
	}
	seen := make(map[int]bool)
	for _, u := range updates {
		seen[u.Job] = true
	}
	if len(seen) != 7 {
		t.Errorf("updates cover %d distinct jobs, want 7", len(seen))
	}
}

func TestExecuteJobsRecordsMetrics(t *testing.T) {
	t.Parallel()
	m := metrics.NewMetrics()
	jobs := append(mulJobs(2), calc.Job{Operands: [][]int64{{1}}})

	ExecuteJobs(context.Background(), newTestEngine(t), mustOp(t, "mul"), jobs, Options{Metrics: m}, NullProgressReporter{}, io.Discard)

	var buf bytes.Buffer
	if err := m.WriteText(&buf); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	text := buf.String()
	for _, want := range []string{
		`polycalc_jobs_total{op="mul",status="ok"} 2`,
		`polycalc_jobs_total{op="mul",status="error"} 1`,
		`polycalc_active_jobs 0`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

// Not parallel: swaps the global tracer provider.
func TestExecuteJobsEmitsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})

	jobs := []calc.Job{
		{Operands: [][]int64{{1, 1}}, Precision: 4},
		{Operands: [][]int64{{2, 1}}, Precision: 4},
	}
	ExecuteJobs(context.Background(), newTestEngine(t), mustOp(t, "log"), jobs, Options{Limit: 1}, NullProgressReporter{}, io.Discard)

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	statuses := map[codes.Code]int{}
	for _, s := range spans {
		if s.Name() != "polycalc.log" {
			t.Errorf("span name = %q", s.Name())
		}
		statuses[s.Status().Code]++
	}
	if statuses[codes.Ok] != 1 || statuses[codes.Error] != 1 {
		t.Errorf("span statuses = %v, want one Ok and one Error", statuses)
	}
}
