package poly

import (
	"strings"

	"github.com/agbru/polycalc/internal/field"
)

// Poly is a polynomial c[0] + c[1]x + ... + c[n-1]x^(n-1) over field P.
// The zero value is the zero polynomial.
type Poly[P field.Modulus] struct {
	c []field.Element[P]
}

// New builds a polynomial from coefficients in ascending order. The slice
// is copied and trailing zeros are dropped.
func New[P field.Modulus](coeffs ...field.Element[P]) Poly[P] {
	c := make([]field.Element[P], len(coeffs))
	copy(c, coeffs)
	return Poly[P]{c: trim(c)}
}

// FromInts builds a polynomial from integer coefficients, reducing each
// into the field. Trailing zeros are dropped.
func FromInts[P field.Modulus, I field.Integer](vals ...I) Poly[P] {
	c := make([]field.Element[P], len(vals))
	for i, v := range vals {
		c[i] = field.New[P](v)
	}
	return Poly[P]{c: trim(c)}
}

// Constant returns the degree-0 polynomial c (or zero if c is zero).
func Constant[P field.Modulus](c field.Element[P]) Poly[P] {
	return New(c)
}

// Monomial returns c*x^k. A negative k yields the zero polynomial.
func Monomial[P field.Modulus](c field.Element[P], k int) Poly[P] {
	if c.IsZero() || k < 0 {
		return Poly[P]{}
	}
	out := make([]field.Element[P], k+1)
	out[k] = c
	return Poly[P]{c: out}
}

// X returns the polynomial x.
func X[P field.Modulus]() Poly[P] {
	return Monomial(field.One[P](), 1)
}

// trim drops trailing zeros without copying.
func trim[P field.Modulus](c []field.Element[P]) []field.Element[P] {
	n := len(c)
	for n > 0 && c[n-1].IsZero() {
		n--
	}
	return c[:n]
}

// Len returns the number of stored coefficients, trailing zeros included.
func (p Poly[P]) Len() int { return len(p.c) }

// Degree returns the index of the highest nonzero coefficient, or -1 for
// the zero polynomial.
func (p Poly[P]) Degree() int { return len(trim(p.c)) - 1 }

// IsZero reports whether every coefficient is zero.
func (p Poly[P]) IsZero() bool { return p.Degree() < 0 }

// Coeff returns the coefficient of x^i, which is zero beyond the stored
// length or for negative i.
func (p Poly[P]) Coeff(i int) field.Element[P] {
	if i < 0 || i >= len(p.c) {
		return field.Element[P]{}
	}
	return p.c[i]
}

// Coeffs returns a copy of the stored coefficients.
func (p Poly[P]) Coeffs() []field.Element[P] {
	out := make([]field.Element[P], len(p.c))
	copy(out, p.c)
	return out
}

// Values returns the canonical representatives of the stored coefficients.
func (p Poly[P]) Values() []uint64 {
	out := make([]uint64, len(p.c))
	for i, x := range p.c {
		out[i] = x.Value()
	}
	return out
}

// Lead returns the highest nonzero coefficient, or zero for the zero
// polynomial.
func (p Poly[P]) Lead() field.Element[P] {
	return p.Coeff(p.Degree())
}

// Equal reports whether p and q are the same polynomial. Trailing zeros
// are ignored.
func (p Poly[P]) Equal(q Poly[P]) bool {
	a, b := trim(p.c), trim(q.c)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// String lists the stored coefficients separated by spaces, lowest first.
func (p Poly[P]) String() string {
	var sb strings.Builder
	for i, x := range p.c {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(x.String())
	}
	return sb.String()
}
