package ntt

import (
	"testing"

	"github.com/agbru/polycalc/internal/field"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// FuzzConvolveMatchesNaive compares the transform-based product with the
// schoolbook product on byte-derived operands.
func FuzzConvolveMatchesNaive(f *testing.F) {
	f.Add([]byte{1, 2, 3}, []byte{4, 5})
	f.Add([]byte{0}, []byte{0, 0, 0, 9})
	f.Add([]byte{255, 255, 255, 255, 255}, []byte{255, 1})

	f.Fuzz(func(t *testing.T, x, y []byte) {
		if len(x) > 300 || len(y) > 300 {
			return
		}
		a := make([]field.Element[field.M65537], len(x))
		for i, v := range x {
			a[i] = field.New[field.M65537](int(v) - 128)
		}
		b := make([]field.Element[field.M65537], len(y))
		for i, v := range y {
			b[i] = field.New[field.M65537](int(v) * 257)
		}
		got, err := Convolve(a, b)
		if err != nil {
			t.Fatalf("Convolve failed: %v", err)
		}
		if !equalElems(got, naiveConvolve(a, b)) {
			t.Fatalf("mismatch for %v * %v", x, y)
		}
	})
}

func TestConvolve_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	toElems := func(vs []uint32) []fp {
		out := make([]fp, len(vs))
		for i, v := range vs {
			out[i] = field.New[field.M998244353](v)
		}
		return out
	}

	properties.Property("convolution matches the schoolbook product", prop.ForAll(
		func(x, y []uint32) bool {
			a, b := toElems(x), toElems(y)
			got, err := Convolve(a, b)
			if err != nil {
				return false
			}
			return equalElems(got, naiveConvolve(a, b))
		},
		gen.SliceOf(gen.UInt32()), gen.SliceOf(gen.UInt32()),
	))

	properties.Property("convolution is commutative", prop.ForAll(
		func(x, y []uint32) bool {
			a, b := toElems(x), toElems(y)
			ab, err1 := Convolve(a, b)
			ba, err2 := Convolve(b, a)
			return err1 == nil && err2 == nil && equalElems(ab, ba)
		},
		gen.SliceOf(gen.UInt32()), gen.SliceOf(gen.UInt32()),
	))

	properties.Property("round trip restores the input", prop.ForAll(
		func(x []uint32, logn uint8) bool {
			n := 1 << (logn % 11)
			a := make([]fp, n)
			for i := range a {
				if i < len(x) {
					a[i] = field.New[field.M998244353](x[i])
				}
			}
			orig := append([]fp(nil), a...)
			if Forward(a) != nil || Inverse(a) != nil {
				return false
			}
			return equalElems(a, orig)
		},
		gen.SliceOf(gen.UInt32()), gen.UInt8(),
	))

	properties.TestingRun(t)
}
