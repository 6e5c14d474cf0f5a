package poly

import (
	apperrors "github.com/agbru/polycalc/internal/errors"
	"github.com/agbru/polycalc/internal/field"
	"github.com/agbru/polycalc/internal/ntt"
)

// Inv returns g with p*g = 1 mod x^t, computed by Newton iteration
// g <- g*(2 - p*g) with doubling precision. The constant term of p must be
// nonzero, otherwise it fails with ErrDivisionByZero. t <= 0 yields the
// empty polynomial.
func (p Poly[P]) Inv(t int) (Poly[P], error) {
	c0 := p.Coeff(0)
	if c0.IsZero() {
		return Poly[P]{}, apperrors.NewArithmeticError("poly.Inv", apperrors.ErrDivisionByZero,
			"constant term is zero")
	}
	if t <= 0 {
		return Poly[P]{}, nil
	}
	c0inv, err := c0.Inverse()
	if err != nil {
		return Poly[P]{}, err
	}

	two := field.New[P](2)
	g := []field.Element[P]{c0inv}
	for i := 1; i < t; {
		i <<= 1
		fg, err := ntt.Convolve(p.Truncate(i).c, g)
		if err != nil {
			return Poly[P]{}, err
		}
		// h = 2 - f*g mod x^i
		h := make([]field.Element[P], i)
		for j := 0; j < i && j < len(fg); j++ {
			h[j] = fg[j].Neg()
		}
		h[0] = h[0].Add(two)

		next, err := ntt.Convolve(g, h)
		if err != nil {
			return Poly[P]{}, err
		}
		g = next[:i]
	}
	return Poly[P]{c: g}.Resize(t), nil
}

// Derivative returns the formal derivative: Len(p)-1 coefficients with
// c'[i-1] = i*c[i]. Constants and the zero polynomial map to zero.
func (p Poly[P]) Derivative() Poly[P] {
	n := len(p.c)
	if n <= 1 {
		return Poly[P]{}
	}
	out := make([]field.Element[P], n-1)
	for i := 1; i < n; i++ {
		out[i-1] = p.c[i].Mul(field.New[P](i))
	}
	return Poly[P]{c: out}
}

// Integral returns the antiderivative with zero constant term: Len(p)+1
// coefficients with C[i+1] = c[i]/(i+1). It fails with ErrNoInverseExists
// when some i+1 is a multiple of the modulus, which only happens for
// polynomials at least as long as the modulus.
func (p Poly[P]) Integral() (Poly[P], error) {
	n := len(p.c)
	out := make([]field.Element[P], n+1)
	if n == 0 {
		return Poly[P]{c: out}, nil
	}
	denoms := make([]field.Element[P], n)
	for i := range denoms {
		denoms[i] = field.New[P](i + 1)
	}
	invs, err := field.BatchInverse(denoms)
	if err != nil {
		return Poly[P]{}, apperrors.WrapError(err, "poly.Integral of length %d", n)
	}
	for i, x := range p.c {
		out[i+1] = x.Mul(invs[i])
	}
	return Poly[P]{c: out}, nil
}

// Log returns log(p) mod x^t = integral(p'/p). The constant term of p must
// be one, otherwise it fails with ErrPreconditionViolated.
func (p Poly[P]) Log(t int) (Poly[P], error) {
	if c0 := p.Coeff(0); !c0.Equal(field.One[P]()) {
		return Poly[P]{}, apperrors.NewArithmeticError("poly.Log", apperrors.ErrPreconditionViolated,
			"constant term is %s, want 1", c0)
	}
	if t <= 0 {
		return Poly[P]{}, nil
	}
	f := p.Truncate(t)
	inv, err := f.Inv(t)
	if err != nil {
		return Poly[P]{}, err
	}
	q, err := f.Derivative().Mul(inv)
	if err != nil {
		return Poly[P]{}, err
	}
	out, err := q.Truncate(t - 1).Integral()
	if err != nil {
		return Poly[P]{}, err
	}
	return out.Resize(t), nil
}

// Exp returns exp(p) mod x^t, computed by Newton iteration
// g <- g*(1 + p - log(g)) with doubling precision. The constant term of p
// must be zero, otherwise it fails with ErrPreconditionViolated. The zero
// polynomial is accepted and yields 1.
func (p Poly[P]) Exp(t int) (Poly[P], error) {
	if c0 := p.Coeff(0); !c0.IsZero() {
		return Poly[P]{}, apperrors.NewArithmeticError("poly.Exp", apperrors.ErrPreconditionViolated,
			"constant term is %s, want 0", c0)
	}
	if t <= 0 {
		return Poly[P]{}, nil
	}

	one := Constant(field.One[P]())
	g := one
	for i := 1; i < t; {
		i <<= 1
		lg, err := g.Log(i)
		if err != nil {
			return Poly[P]{}, err
		}
		h := p.Truncate(i).Sub(lg).Add(one)
		g, err = g.Mul(h)
		if err != nil {
			return Poly[P]{}, err
		}
		g = g.Truncate(i)
	}
	return g.Resize(t), nil
}

// Pow returns p^k mod x^t.
//
// Leading zero coefficients are factored out first: with p = c*x^s*u(x)
// and u(0) = 1, the result is c^k * x^(s*k) * exp(k*log(u)). If s*k >= t
// the result is t zeros.
//
// k enters the exponential as a field element, so for k >= modulus the
// result equals p^(k mod p) on the series part while c^k and the shift use
// the full k. Callers needing exact powers must keep k below the modulus.
func (p Poly[P]) Pow(k uint64, t int) (Poly[P], error) {
	if t <= 0 {
		return Poly[P]{}, nil
	}
	if k == 0 {
		return Constant(field.One[P]()).Resize(t), nil
	}

	s := -1
	for i, x := range p.c {
		if !x.IsZero() {
			s = i
			break
		}
	}
	// s*k >= t, written to avoid overflowing s*k.
	if s < 0 || uint64(s) > uint64(t-1)/k {
		return Poly[P]{}.Resize(t), nil
	}
	shift := s * int(k)
	rest := t - shift

	c := p.c[s]
	cInv, err := c.Inverse()
	if err != nil {
		return Poly[P]{}, err
	}
	u := p.Shr(s).Truncate(rest).Scale(cInv)
	lu, err := u.Log(rest)
	if err != nil {
		return Poly[P]{}, err
	}
	e, err := lu.Scale(field.New[P](k)).Exp(rest)
	if err != nil {
		return Poly[P]{}, err
	}
	return e.Scale(c.Pow(k)).Shl(shift).Resize(t), nil
}
