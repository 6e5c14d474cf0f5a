package ntt

import (
	"fmt"

	"github.com/agbru/polycalc/internal/field"
)

// Convolve returns the acyclic convolution c[k] = sum a[i]*b[k-i] of length
// len(a)+len(b)-1, computed by zero-padding both operands to the next power
// of two. If either operand is empty the result is empty.
//
// When a and b are the same slice the operand is transformed only once.
// Neither input is modified.
func Convolve[P field.Modulus](a, b []field.Element[P]) ([]field.Element[P], error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, nil
	}
	size := len(a) + len(b) - 1
	n := 1
	for n < size {
		n <<= 1
	}

	fa := make([]field.Element[P], n)
	copy(fa, a)
	if err := Forward(fa); err != nil {
		return nil, fmt.Errorf("convolve %d x %d: %w", len(a), len(b), err)
	}

	if sameSlice(a, b) {
		for i := range fa {
			fa[i] = fa[i].Mul(fa[i])
		}
	} else {
		fb := acquire[P](n)
		defer release(fb)
		copy(fb, b)
		if err := Forward(fb); err != nil {
			return nil, fmt.Errorf("convolve %d x %d: %w", len(a), len(b), err)
		}
		for i := range fa {
			fa[i] = fa[i].Mul(fb[i])
		}
	}

	if err := Inverse(fa); err != nil {
		return nil, fmt.Errorf("convolve %d x %d: %w", len(a), len(b), err)
	}
	return fa[:size:size], nil
}

func sameSlice[P field.Modulus](a, b []field.Element[P]) bool {
	return len(a) == len(b) && &a[0] == &b[0]
}
