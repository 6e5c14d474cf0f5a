// Package calibration measures the crossover points between the direct and
// transform-based algorithms of Rem and MultiEval on the current machine,
// and persists them as a profile.
package calibration

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/agbru/polycalc/internal/calc"
	"github.com/agbru/polycalc/internal/poly"
)

// Measurement is the best-of-reps timing of both methods at one size.
type Measurement struct {
	Size      int
	Direct    time.Duration
	Transform time.Duration
}

// Result holds a calibration run.
type Result struct {
	Modulus             uint64
	Remainder           []Measurement
	Evaluation          []Measurement
	SchoolbookThreshold int
	HornerThreshold     int
	Elapsed             time.Duration
}

// Options tunes a calibration run.
type Options struct {
	// Sizes are the probe sizes, ascending. Empty means DefaultSizes.
	Sizes []int
	// Reps is the number of timed repetitions per probe; the fastest counts.
	Reps int
	// Seed makes the random operands reproducible.
	Seed uint64
}

// Run measures both crossovers for modulus m. It checks ctx between probes
// and returns ctx.Err() when interrupted.
func Run(ctx context.Context, m uint64, opts Options) (Result, error) {
	if len(opts.Sizes) == 0 {
		opts.Sizes = DefaultSizes()
	}
	if opts.Reps <= 0 {
		opts.Reps = 3
	}
	direct, err := calc.NewEngine(m,
		poly.WithSchoolbookThreshold(math.MaxInt), poly.WithHornerThreshold(math.MaxInt))
	if err != nil {
		return Result{}, err
	}
	transform, err := calc.NewEngine(m,
		poly.WithSchoolbookThreshold(-1), poly.WithHornerThreshold(-1))
	if err != nil {
		return Result{}, err
	}

	// Products of a 2n-term dividend must fit the field's transform length.
	maxLen := direct.Params().MaxTransformLen()
	sizes := make([]int, 0, len(opts.Sizes))
	for _, n := range opts.Sizes {
		if 4*n <= maxLen {
			sizes = append(sizes, n)
		}
	}

	start := time.Now()
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	res := Result{Modulus: m}
	for _, n := range sizes {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		f, g := randomPoly(rng, 2*n, m), randomPoly(rng, n+1, m)
		res.Remainder = append(res.Remainder, Measurement{
			Size:      n,
			Direct:    best(opts.Reps, func() { _, _ = direct.Rem(f, g) }),
			Transform: best(opts.Reps, func() { _, _ = transform.Rem(f, g) }),
		})

		p, pts := randomPoly(rng, n, m), randomPoly(rng, n, m)
		res.Evaluation = append(res.Evaluation, Measurement{
			Size:      n,
			Direct:    best(opts.Reps, func() { _, _ = direct.MultiEval(p, pts) }),
			Transform: best(opts.Reps, func() { _, _ = transform.MultiEval(p, pts) }),
		})
	}
	res.SchoolbookThreshold = pickThreshold(res.Remainder)
	res.HornerThreshold = pickThreshold(res.Evaluation)
	res.Elapsed = time.Since(start)
	return res, nil
}

// Profile converts r into a persistable profile.
func (r Result) Profile() *Profile {
	p := NewProfile()
	p.Modulus = r.Modulus
	p.SchoolbookThreshold = r.SchoolbookThreshold
	p.HornerThreshold = r.HornerThreshold
	p.CalibrationTime = r.Elapsed.Round(time.Millisecond).String()
	return p
}

// randomPoly returns n coefficients in [1, m) so the leading one is nonzero.
func randomPoly(rng *rand.Rand, n int, m uint64) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(1 + rng.Uint64N(m-1))
	}
	return out
}

func best(reps int, fn func()) time.Duration {
	fastest := time.Duration(math.MaxInt64)
	for range reps {
		start := time.Now()
		fn()
		fastest = min(fastest, time.Since(start))
	}
	return fastest
}
