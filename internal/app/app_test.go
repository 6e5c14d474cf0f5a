package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agbru/polycalc/internal/calc"
	"github.com/agbru/polycalc/internal/calibration"
	apperrors "github.com/agbru/polycalc/internal/errors"
)

func run(t *testing.T, input string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var errBuf, outBuf bytes.Buffer
	app, err := New(append([]string{"polycalc", "-no-color"}, args...), &errBuf, WithInput(strings.NewReader(input)))
	if err != nil {
		t.Fatalf("New(%v): %v", args, err)
	}
	code = app.Run(context.Background(), &outBuf)
	return code, outBuf.String(), errBuf.String()
}

func TestRunDefaultOpIsExp(t *testing.T) {
	code, out, _ := run(t, "4\n0 1 0 0\n", "-q")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if out != "1 1 499122177 166374059\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestRunOperations(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		input string
		want  string
	}{
		{"mul", []string{"-op", "mul"}, "2 1 1 2 1 -1", "1 0 998244352\n"},
		{"inv with precision", []string{"-op", "inv", "-t", "3"}, "2 1 1", "1 998244352 1\n"},
		{"pow", []string{"-op", "pow", "-k", "3", "-t", "4"}, "2 1 1", "1 3 3 1\n"},
		{"divmod", []string{"-op", "divmod"}, "3 1 2 1 2 1 1", "1 1\n\n"},
		{"eval", []string{"-op", "eval"}, "3 1 0 1 3 0 1 2", "1 2 5\n"},
		{"several cases", []string{"-op", "deriv", "-jobs", "2"}, "3 1 2 3  2 5 7  1 9", "2 6\n7\n\n"},
		{"other modulus", []string{"-op", "mul", "-mod", "7340033"}, "1 7340034 1 5", "5\n"},
		{"no input", []string{"-op", "exp"}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, stderr := run(t, tt.input, append(tt.args, "-q")...)
			if code != apperrors.ExitSuccess {
				t.Fatalf("exit code = %d, stderr = %s", code, stderr)
			}
			if out != tt.want {
				t.Errorf("stdout = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		input  string
		code   int
		stdout string
	}{
		{"log precondition", []string{"-op", "log"}, "2 1 1  2 2 1  2 1 1", apperrors.ExitErrorArithmetic, "0 1\n"},
		{"inverse of zero series", []string{"-op", "inv"}, "2 0 1", apperrors.ExitErrorArithmetic, ""},
		{"divide by zero polynomial", []string{"-op", "div"}, "1 1 0", apperrors.ExitErrorArithmetic, ""},
		{"malformed input", []string{"-op", "exp"}, "3 0 1", apperrors.ExitErrorGeneric, ""},
		{"missing input file", []string{"-input", "/nonexistent/cases.txt"}, "", apperrors.ExitErrorConfig, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, stderr := run(t, tt.input, append(tt.args, "-q")...)
			if code != tt.code {
				t.Errorf("exit code = %d, want %d (stderr %s)", code, tt.code, stderr)
			}
			if out != tt.stdout {
				t.Errorf("stdout = %q, want %q", out, tt.stdout)
			}
			if !strings.Contains(stderr, "Error:") {
				t.Errorf("stderr should report the error, got %q", stderr)
			}
		})
	}
}

func TestRunOutputFileAndDetails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "result.txt")
	code, out, stderr := run(t, "2 1 1 2 1 1", "-op", "mul", "-o", path, "-d", "-metrics")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}
	if out != "" {
		t.Errorf("stdout should be empty when -o is set, got %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != "1 2 1\n" {
		t.Errorf("file = %q", data)
	}
	for _, want := range []string{
		"Running mul on 1 case(s)",
		"result(s) saved to: " + path,
		"1 ok, 0 failed",
		`polycalc_jobs_total{op="mul",status="ok"} 1`,
	} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q", want)
		}
	}
}

func TestRunTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	registry := calc.NewRegistry()
	if err := registry.Register(calc.Operation{
		Name:  "block",
		Arity: 1,
		Exec: func(calc.Engine, calc.Job) ([][]uint64, error) {
			<-release
			return nil, nil
		},
	}); err != nil {
		t.Fatal(err)
	}

	var errBuf, outBuf bytes.Buffer
	app, err := New([]string{"polycalc", "-op", "block", "-timeout", "20ms", "-q"}, &errBuf,
		WithRegistry(registry), WithInput(strings.NewReader("1 1")))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if code := app.Run(context.Background(), &outBuf); code != apperrors.ExitErrorTimeout {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorTimeout)
	}
	if !strings.Contains(errBuf.String(), `operation "block" timed out after 20ms`) {
		t.Errorf("stderr = %q", errBuf.String())
	}
}

func TestRunCalibrateSavesProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	code, out, _ := run(t, "", "-calibrate", "-calibration-profile", path, "-q")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out, "Calibrated") {
		t.Errorf("missing calibration summary: %q", out)
	}
	profile, err := calibration.LoadProfile(path)
	if err != nil {
		t.Fatalf("profile not written: %v", err)
	}
	if !profile.IsValid(998244353) {
		t.Errorf("saved profile should be valid here: %+v", profile)
	}

	// A later run picks the profile up and still computes correctly.
	code, out, _ = run(t, "3 1 2 3", "-op", "inv", "-calibration-profile", path, "-q")
	if code != apperrors.ExitSuccess || out != "1 998244351 1\n" {
		t.Errorf("run with profile: code=%d out=%q", code, out)
	}
}

func TestRunIgnoresMissingProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")
	code, out, _ := run(t, "2 1 1", "-op", "inv", "-t", "3", "-calibration-profile", path, "-q")
	if code != apperrors.ExitSuccess || out != "1 998244352 1\n" {
		t.Errorf("code=%d out=%q", code, out)
	}
}

func TestRunListModuli(t *testing.T) {
	code, out, _ := run(t, "", "-list-moduli", "-mod", "12")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	for _, m := range []string{"998244353", "469762049", "7340033"} {
		if !strings.Contains(out, m) {
			t.Errorf("moduli list missing %s", m)
		}
	}
}

func TestRunCompletion(t *testing.T) {
	code, out, _ := run(t, "", "-completion", "bash")
	if code != apperrors.ExitSuccess || !strings.Contains(out, "complete -F _polycalc polycalc") {
		t.Errorf("bash completion: code %d, out %q", code, out)
	}
	code, _, stderr := run(t, "", "-completion", "tcsh")
	if code != apperrors.ExitErrorConfig || !strings.Contains(stderr, "unsupported shell") {
		t.Errorf("tcsh completion: code %d, stderr %q", code, stderr)
	}
}

func TestRunREPL(t *testing.T) {
	code, out, _ := run(t, "set f 1 0 1\nset p 0 1 2\neval f p\nexit\n", "-repl")
	if code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(out, "_ = 1 2 5") {
		t.Errorf("REPL output:\n%s", out)
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		help bool
	}{
		{"unknown op", []string{"-op", "sqrt"}, false},
		{"bad modulus", []string{"-mod", "1000"}, false},
		{"stray argument", []string{"extra"}, false},
		{"help", []string{"-h"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errBuf bytes.Buffer
			_, err := New(append([]string{"polycalc"}, tt.args...), &errBuf)
			if err == nil {
				t.Fatal("expected an error")
			}
			if IsHelpError(err) != tt.help {
				t.Errorf("IsHelpError(%v) = %v, want %v", err, !tt.help, tt.help)
			}
			var cfgErr apperrors.ConfigError
			if !tt.help && !errors.As(err, &cfgErr) {
				t.Errorf("err = %T, want ConfigError", err)
			}
		})
	}
}

func TestMaxOperandLen(t *testing.T) {
	t.Parallel()
	jobs := []calc.Job{
		{Operands: [][]int64{{1, 2}, {1, 2, 3}}},
		{Operands: [][]int64{{1}}, Precision: 9},
	}
	if got := maxOperandLen(jobs); got != 9 {
		t.Errorf("maxOperandLen = %d, want 9", got)
	}
	if got := maxOperandLen(nil); got != 0 {
		t.Errorf("maxOperandLen(nil) = %d, want 0", got)
	}
}
