package cli

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/polycalc/internal/errors"
	"github.com/agbru/polycalc/internal/field"
	"github.com/agbru/polycalc/internal/metrics"
	"github.com/agbru/polycalc/internal/orchestration"
	"github.com/agbru/polycalc/internal/sysmon"
	"github.com/agbru/polycalc/internal/ui"
)

func noColor(t *testing.T) {
	t.Helper()
	prev := ui.CurrentTheme()
	ui.SetCurrentTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.SetCurrentTheme(prev) })
}

func defaultParams(t *testing.T) field.Params {
	t.Helper()
	p, err := field.Lookup(998244353)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestDisplayRunHeader(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	DisplayRunHeader(&buf, RunInfo{Op: "exp", Params: defaultParams(t), Jobs: 3, Limit: 2, Timeout: time.Minute})
	want := "Running exp on 3 case(s) modulo 998244353, 2 at a time, timeout 1m0s."
	if !strings.Contains(buf.String(), want) {
		t.Errorf("header = %q, want it to contain %q", buf.String(), want)
	}
}

func TestDisplayDetails(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	DisplayDetails(&buf, Details{
		Info:    RunInfo{Op: "mul", Params: defaultParams(t)},
		Summary: orchestration.Summary{Jobs: 2, Succeeded: 1, Failed: 1, Busy: 3 * time.Millisecond, Slowest: 2 * time.Millisecond, SlowestJob: 1},
		Wall:    5 * time.Millisecond,
		Memory:  metrics.MemoryDelta{HeapGrowth: -2048, GCCycles: 1, PeakSys: 1 << 20},
		System:  sysmon.Stats{LogicalCPUs: 4},
	})
	out := buf.String()
	for _, want := range []string{
		"Run", "Memory", "System",
		"998244353 (root 3, 2^23 | p-1)",
		"8,388,608",
		"1 ok, 1 failed",
		"#2 in 2ms",
		"-2.0 KiB",
		"1.0 MiB",
		"4 logical CPUs",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("details missing %q\n%s", want, out)
		}
	}
}

func TestCPUFeaturesNeverEmpty(t *testing.T) {
	t.Parallel()
	if len(CPUFeatures()) == 0 {
		t.Error("CPUFeatures() must report at least one entry")
	}
}

func TestDisplayError(t *testing.T) {
	noColor(t)
	tests := []struct {
		name string
		err  error
		code int
		hint string
	}{
		{"nil", nil, apperrors.ExitSuccess, ""},
		{"timeout", context.DeadlineExceeded, apperrors.ExitErrorTimeout, "-timeout"},
		{"canceled", context.Canceled, apperrors.ExitErrorCanceled, ""},
		{"precondition", apperrors.CalculationError{Job: 0, Cause: apperrors.NewArithmeticError("poly.Log", apperrors.ErrPreconditionViolated, "")}, apperrors.ExitErrorArithmetic, "a[0] = 1"},
		{"validation", apperrors.ValidationError{Field: "input", Message: "x"}, apperrors.ExitErrorGeneric, "length followed"},
		{"config", apperrors.NewConfigError("bad"), apperrors.ExitErrorConfig, ""},
		{"generic", errors.New("boom"), apperrors.ExitErrorGeneric, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if code := DisplayError(&buf, tt.err); code != tt.code {
				t.Errorf("code = %d, want %d", code, tt.code)
			}
			if tt.err == nil && buf.Len() != 0 {
				t.Errorf("nil error should print nothing, got %q", buf.String())
			}
			if tt.hint != "" && !strings.Contains(buf.String(), tt.hint) {
				t.Errorf("output %q missing hint %q", buf.String(), tt.hint)
			}
		})
	}
}

func TestDisplayModuli(t *testing.T) {
	noColor(t)
	var buf bytes.Buffer
	DisplayModuli(&buf)
	out := buf.String()
	for _, p := range field.Supported() {
		if !strings.Contains(out, strconv.FormatUint(p.Modulus, 10)) {
			t.Errorf("moduli table missing %d", p.Modulus)
		}
	}
	marked := 0
	for _, line := range strings.Split(out, "\n") {
		if strings.HasSuffix(line, "*") {
			marked++
		}
		if strings.HasPrefix(line, "998244353 ") && !strings.HasSuffix(line, "*") {
			t.Errorf("default modulus should be marked: %q", line)
		}
	}
	if marked != 1 {
		t.Errorf("%d moduli marked as default, want 1", marked)
	}
}
