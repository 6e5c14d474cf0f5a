package ntt

import (
	"math/bits"
	"sync"

	apperrors "github.com/agbru/polycalc/internal/errors"
	"github.com/agbru/polycalc/internal/field"
)

// tableKey identifies a cached root table. kind holds the zero value of the
// modulus type, so two distinct types never share a table.
type tableKey struct {
	kind    any
	n       int
	inverse bool
}

var rootTables sync.Map // tableKey -> []field.Element[P]

// Forward applies the forward transform to a in place.
func Forward[P field.Modulus](a []field.Element[P]) error {
	return Transform(a, false)
}

// Inverse applies the inverse transform to a in place, including the
// multiplication by n^-1.
func Inverse[P field.Modulus](a []field.Element[P]) error {
	return Transform(a, true)
}

// Transform evaluates a at the powers of a primitive len(a)-th root of
// unity (or its inverse) in place. The output is in natural order.
//
// It fails with ErrUnsupportedModulus if P is not registered and with
// ErrInvalidTransformSize if len(a) is not a power of two dividing p-1.
// On error a is left untouched.
func Transform[P field.Modulus](a []field.Element[P], inverse bool) error {
	params, err := field.ParamsOf[P]()
	if err != nil {
		return err
	}
	n := len(a)
	if err := checkSize(n, params); err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	bitReverse(a)
	roots := rootTable[P](n, inverse)

	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		step := n / size
		for start := 0; start < n; start += size {
			for k := 0; k < half; k++ {
				u := a[start+k]
				v := a[start+k+half].Mul(roots[k*step])
				a[start+k] = u.Add(v)
				a[start+k+half] = u.Sub(v)
			}
		}
	}

	if inverse {
		nInv, err := field.New[P](n).Inverse()
		if err != nil {
			return err
		}
		for i := range a {
			a[i] = a[i].Mul(nInv)
		}
	}
	return nil
}

// checkSize validates a transform length against the two-adicity of p-1.
func checkSize(n int, params field.Params) error {
	if n <= 0 || n&(n-1) != 0 {
		return apperrors.NewArithmeticError("ntt.Transform", apperrors.ErrInvalidTransformSize,
			"length %d is not a power of two", n)
	}
	if bits.TrailingZeros(uint(n)) > params.TwoAdicity {
		return apperrors.NewArithmeticError("ntt.Transform", apperrors.ErrInvalidTransformSize,
			"length %d exceeds 2^%d for modulus %d", n, params.TwoAdicity, params.Modulus)
	}
	return nil
}

// bitReverse permutes a so that a[i] and a[rev(i)] are swapped, where rev
// reverses the low log2(len(a)) bits.
func bitReverse[P field.Modulus](a []field.Element[P]) {
	n := len(a)
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			a[i], a[j] = a[j], a[i]
		}
	}
}

// rootTable returns w^0, ..., w^(n/2-1) where w is the primitive n-th root
// of unity g^((p-1)/n), or its inverse when inverse is set.
func rootTable[P field.Modulus](n int, inverse bool) []field.Element[P] {
	var kind P
	key := tableKey{kind: kind, n: n, inverse: inverse}
	if v, ok := rootTables.Load(key); ok {
		return v.([]field.Element[P])
	}

	m := field.ModulusOf[P]()
	w := field.New[P](field.RootOf[P]()).Pow((m - 1) / uint64(n))
	if inverse {
		w = w.Pow(m - 2)
	}
	table := make([]field.Element[P], n/2)
	cur := field.One[P]()
	for i := range table {
		table[i] = cur
		cur = cur.Mul(w)
	}

	actual, _ := rootTables.LoadOrStore(key, table)
	return actual.([]field.Element[P])
}
