package calibration

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestPickThreshold(t *testing.T) {
	t.Parallel()
	ms := func(pairs ...[3]int) []Measurement {
		out := make([]Measurement, len(pairs))
		for i, p := range pairs {
			out[i] = Measurement{Size: p[0], Direct: time.Duration(p[1]), Transform: time.Duration(p[2])}
		}
		return out
	}
	tests := []struct {
		name string
		in   []Measurement
		want int
	}{
		{"empty", nil, -1},
		{"transform always wins", ms([3]int{8, 5, 4}, [3]int{16, 9, 5}), -1},
		{"direct always wins", ms([3]int{8, 1, 4}, [3]int{16, 2, 5}), 16},
		{"clean crossover", ms([3]int{8, 1, 4}, [3]int{16, 3, 5}, [3]int{32, 9, 6}, [3]int{64, 20, 9}), 16},
		{"single noisy loss", ms([3]int{8, 1, 4}, [3]int{16, 6, 5}, [3]int{32, 5, 6}, [3]int{64, 20, 9}), 32},
		{"ties favor direct", ms([3]int{8, 4, 4}), 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := pickThreshold(tt.in); got != tt.want {
				t.Errorf("pickThreshold = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSizes(t *testing.T) {
	t.Parallel()
	for _, sizes := range [][]int{DefaultSizes(), QuickSizes()} {
		for i := 1; i < len(sizes); i++ {
			if sizes[i] <= sizes[i-1] {
				t.Fatalf("sizes must ascend: %v", sizes)
			}
		}
	}
}

func TestRun(t *testing.T) {
	t.Parallel()
	res, err := Run(context.Background(), 998244353, Options{Sizes: QuickSizes(), Reps: 1, Seed: 1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Remainder) != 3 || len(res.Evaluation) != 3 {
		t.Fatalf("expected one measurement per size, got %d and %d", len(res.Remainder), len(res.Evaluation))
	}
	valid := map[int]bool{-1: true, 8: true, 32: true, 128: true}
	if !valid[res.SchoolbookThreshold] || !valid[res.HornerThreshold] {
		t.Errorf("thresholds must be a probed size or -1: %d, %d", res.SchoolbookThreshold, res.HornerThreshold)
	}
	if res.Elapsed <= 0 {
		t.Error("Elapsed not recorded")
	}

	var buf bytes.Buffer
	PrintResult(&buf, res)
	for _, want := range []string{"Remainder", "Multipoint evaluation", "Calibrated", "128"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestRunSkipsSizesBeyondTransformLength(t *testing.T) {
	t.Parallel()
	// 257 supports transforms of at most 256 points.
	res, err := Run(context.Background(), 257, Options{Sizes: []int{8, 64, 128}, Reps: 1})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Remainder) != 2 || res.Remainder[1].Size != 64 {
		t.Errorf("unexpected probes: %+v", res.Remainder)
	}
}

func TestRunErrors(t *testing.T) {
	t.Parallel()
	if _, err := Run(context.Background(), 1000000007, Options{}); err == nil {
		t.Error("expected an error for an unsupported modulus")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, 998244353, Options{Sizes: QuickSizes()}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "profile.json")
	res := Result{Modulus: 998244353, SchoolbookThreshold: 32, HornerThreshold: -1, Elapsed: 1500 * time.Millisecond}
	if err := res.Profile().SaveProfile(path); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.SchoolbookThreshold != 32 || p.HornerThreshold != -1 || p.CalibrationTime != "1.5s" {
		t.Errorf("profile fields lost: %+v", p)
	}
	if !p.IsValid(998244353) {
		t.Error("profile from this machine should be valid")
	}
	if p.IsValid(65537) {
		t.Error("profile for another modulus must be rejected")
	}
}

func TestProfileIsValid(t *testing.T) {
	t.Parallel()
	base := func() *Profile {
		p := NewProfile()
		p.Modulus = 7340033
		return p
	}
	if !base().IsValid(7340033) {
		t.Fatal("fresh profile should be valid")
	}
	tests := []struct {
		name   string
		mutate func(*Profile)
	}{
		{"old version", func(p *Profile) { p.ProfileVersion = CurrentProfileVersion - 1 }},
		{"other arch", func(p *Profile) { p.GOARCH = runtime.GOARCH + "x" }},
		{"other cpu count", func(p *Profile) { p.NumCPU = runtime.NumCPU() + 1 }},
	}
	for _, tt := range tests {
		p := base()
		tt.mutate(p)
		if p.IsValid(7340033) {
			t.Errorf("%s: profile should be invalid", tt.name)
		}
	}
}

func TestLoadProfileErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if _, err := LoadProfile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProfile(bad); err == nil {
		t.Error("expected an error for malformed JSON")
	}
}
