package poly

import (
	apperrors "github.com/agbru/polycalc/internal/errors"
	"github.com/agbru/polycalc/internal/field"
)

// DivMod returns q and r with p = q*g + r and deg r < deg g, both
// canonical. The quotient is found with the reversal trick:
// rev(q) = rev(p) * rev(g)^-1 mod x^(deg p - deg g + 1).
// A zero divisor fails with ErrDivisionByZero.
func (p Poly[P]) DivMod(g Poly[P]) (q, r Poly[P], err error) {
	f, g := p.Trim(), g.Trim()
	if g.IsZero() {
		return Poly[P]{}, Poly[P]{}, apperrors.NewArithmeticError("poly.DivMod", apperrors.ErrDivisionByZero,
			"zero divisor")
	}
	if len(f.c) < len(g.c) {
		return Poly[P]{}, f, nil
	}

	n := len(f.c) - len(g.c) + 1
	rg, err := g.Reverse(len(g.c)).Inv(n)
	if err != nil {
		return Poly[P]{}, Poly[P]{}, err
	}
	rq, err := f.Reverse(len(f.c)).Truncate(n).Mul(rg)
	if err != nil {
		return Poly[P]{}, Poly[P]{}, err
	}
	q = rq.Resize(n).Reverse(n).Trim()

	qg, err := q.Mul(g)
	if err != nil {
		return Poly[P]{}, Poly[P]{}, err
	}
	r = f.Sub(qg).Truncate(len(g.c) - 1).Trim()
	return q, r, nil
}

// Div returns the quotient of p by g.
func (p Poly[P]) Div(g Poly[P]) (Poly[P], error) {
	q, _, err := p.DivMod(g)
	return q, err
}

// Rem returns p mod g. Small divisors, or dividends barely longer than the
// divisor, use schoolbook long division; see WithSchoolbookThreshold.
func (p Poly[P]) Rem(g Poly[P], opts ...Option) (Poly[P], error) {
	return p.rem(g, newSettings(opts))
}

func (p Poly[P]) rem(g Poly[P], s settings) (Poly[P], error) {
	f, g := p.Trim(), g.Trim()
	if g.IsZero() {
		return Poly[P]{}, apperrors.NewArithmeticError("poly.Rem", apperrors.ErrDivisionByZero,
			"zero divisor")
	}
	if len(f.c) < len(g.c) {
		return f, nil
	}
	dg := g.Degree()
	if dg <= s.schoolbookThreshold || f.Degree()-dg <= s.schoolbookThreshold {
		return remSchoolbook(f, g)
	}
	_, r, err := f.DivMod(g)
	return r, err
}

// remSchoolbook reduces f modulo g by quadratic long division. Both must be
// canonical, g nonzero and deg f >= deg g.
func remSchoolbook[P field.Modulus](f, g Poly[P]) (Poly[P], error) {
	leadInv, err := g.Lead().Inverse()
	if err != nil {
		return Poly[P]{}, err
	}
	dg := g.Degree()
	r := f.Coeffs()
	for i := len(r) - 1; i >= dg; i-- {
		c := r[i].Mul(leadInv)
		if c.IsZero() {
			continue
		}
		for j := 0; j <= dg; j++ {
			r[i-dg+j] = r[i-dg+j].Sub(c.Mul(g.c[j]))
		}
	}
	return Poly[P]{c: trim(r[:dg])}, nil
}
