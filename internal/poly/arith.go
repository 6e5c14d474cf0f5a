package poly

import (
	"github.com/agbru/polycalc/internal/field"
	"github.com/agbru/polycalc/internal/ntt"
)

// Trim returns p without trailing zeros.
func (p Poly[P]) Trim() Poly[P] { return Poly[P]{c: trim(p.c)} }

// Add returns p + q.
func (p Poly[P]) Add(q Poly[P]) Poly[P] {
	out := make([]field.Element[P], max(len(p.c), len(q.c)))
	for i := range out {
		out[i] = p.Coeff(i).Add(q.Coeff(i))
	}
	return Poly[P]{c: trim(out)}
}

// Sub returns p - q.
func (p Poly[P]) Sub(q Poly[P]) Poly[P] {
	out := make([]field.Element[P], max(len(p.c), len(q.c)))
	for i := range out {
		out[i] = p.Coeff(i).Sub(q.Coeff(i))
	}
	return Poly[P]{c: trim(out)}
}

// Neg returns -p.
func (p Poly[P]) Neg() Poly[P] {
	out := make([]field.Element[P], len(p.c))
	for i, x := range p.c {
		out[i] = x.Neg()
	}
	return Poly[P]{c: out}
}

// Scale returns c*p.
func (p Poly[P]) Scale(c field.Element[P]) Poly[P] {
	out := make([]field.Element[P], len(p.c))
	for i, x := range p.c {
		out[i] = x.Mul(c)
	}
	return Poly[P]{c: trim(out)}
}

// DivScalar returns p/c. A zero c fails with ErrDivisionByZero.
func (p Poly[P]) DivScalar(c field.Element[P]) (Poly[P], error) {
	inv, err := field.One[P]().Div(c)
	if err != nil {
		return Poly[P]{}, err
	}
	return p.Scale(inv), nil
}

// Shl returns p*x^k: the coefficients move k places up and the low end is
// zero-filled. The zero polynomial stays zero.
func (p Poly[P]) Shl(k int) Poly[P] {
	if len(p.c) == 0 || k <= 0 {
		return p
	}
	out := make([]field.Element[P], len(p.c)+k)
	copy(out[k:], p.c)
	return Poly[P]{c: out}
}

// Shr returns p divided by x^k with the k lowest coefficients discarded.
func (p Poly[P]) Shr(k int) Poly[P] {
	if k <= 0 {
		return p
	}
	if k >= len(p.c) {
		return Poly[P]{}
	}
	return Poly[P]{c: p.c[k:]}
}

// Truncate returns p mod x^t without padding: at most t coefficients.
func (p Poly[P]) Truncate(t int) Poly[P] {
	if t <= 0 {
		return Poly[P]{}
	}
	if len(p.c) <= t {
		return p
	}
	return Poly[P]{c: p.c[:t]}
}

// Resize returns exactly n coefficients, truncating or zero-padding.
func (p Poly[P]) Resize(n int) Poly[P] {
	if n <= 0 {
		return Poly[P]{}
	}
	if n <= len(p.c) {
		return Poly[P]{c: p.c[:n]}
	}
	out := make([]field.Element[P], n)
	copy(out, p.c)
	return Poly[P]{c: out}
}

// Reverse returns x^(n-1) * p(1/x) for p resized to n coefficients, that
// is the first n coefficients in reverse order.
func (p Poly[P]) Reverse(n int) Poly[P] {
	if n <= 0 {
		return Poly[P]{}
	}
	out := make([]field.Element[P], n)
	for i := range out {
		out[i] = p.Coeff(n - 1 - i)
	}
	return Poly[P]{c: out}
}

// Mul returns p*q using transform convolution. The result has exactly
// Len(p)+Len(q)-1 coefficients, or none if either factor is empty.
// It fails with ErrInvalidTransformSize when the product is too long for
// the field.
func (p Poly[P]) Mul(q Poly[P]) (Poly[P], error) {
	c, err := ntt.Convolve(p.c, q.c)
	if err != nil {
		return Poly[P]{}, err
	}
	return Poly[P]{c: c}, nil
}

// Eval returns p(x) by Horner's rule.
func (p Poly[P]) Eval(x field.Element[P]) field.Element[P] {
	var acc field.Element[P]
	for i := len(p.c) - 1; i >= 0; i-- {
		acc = acc.Mul(x).Add(p.c[i])
	}
	return acc
}
