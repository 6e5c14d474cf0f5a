package field

import apperrors "github.com/agbru/polycalc/internal/errors"

// BatchInverse inverts every element of xs with a single field inversion
// (Montgomery's trick). The input is not modified. If any element is zero
// the whole batch fails with ErrNoInverseExists and reports its index.
func BatchInverse[P Modulus](xs []Element[P]) ([]Element[P], error) {
	n := len(xs)
	if n == 0 {
		return nil, nil
	}

	// prefix[i] = xs[0] * ... * xs[i-1]
	prefix := make([]Element[P], n)
	acc := One[P]()
	for i, x := range xs {
		if x.IsZero() {
			return nil, apperrors.NewArithmeticError("field.BatchInverse", apperrors.ErrNoInverseExists,
				"element %d is zero", i)
		}
		prefix[i] = acc
		acc = acc.Mul(x)
	}

	accInv, err := acc.Inverse()
	if err != nil {
		return nil, err
	}

	out := make([]Element[P], n)
	for i := n - 1; i >= 0; i-- {
		out[i] = accInv.Mul(prefix[i])
		accInv = accInv.Mul(xs[i])
	}
	return out, nil
}
