package calc

import (
	"github.com/agbru/polycalc/internal/field"
	"github.com/agbru/polycalc/internal/ntt"
	"github.com/agbru/polycalc/internal/poly"
)

// Engine runs polynomial operations over one prime field. Inputs are raw
// integers in ascending coefficient order, reduced into the field on entry;
// outputs are canonical residues.
//
// Series operations return exactly t coefficients. Division results are
// trimmed of trailing zeros.
type Engine interface {
	// Params describes the field the engine works in.
	Params() field.Params
	Mul(a, b []int64) ([]uint64, error)
	Inv(a []int64, t int) ([]uint64, error)
	Derivative(a []int64) []uint64
	Integral(a []int64) ([]uint64, error)
	Log(a []int64, t int) ([]uint64, error)
	Exp(a []int64, t int) ([]uint64, error)
	Pow(a []int64, k uint64, t int) ([]uint64, error)
	DivMod(a, b []int64) (q, r []uint64, err error)
	Rem(a, b []int64) ([]uint64, error)
	MultiEval(a, points []int64) ([]uint64, error)
	// PreWarm fills the transform buffer pools for products of operands up
	// to maxLen coefficients.
	PreWarm(maxLen int)
}

// NewEngine returns an Engine for modulus m. Options tune the algorithm
// crossovers and logging of Rem and MultiEval. Unregistered moduli fail
// with ErrUnsupportedModulus.
func NewEngine(m uint64, opts ...poly.Option) (Engine, error) {
	params, err := field.Lookup(m)
	if err != nil {
		return nil, err
	}
	switch m {
	case 998244353:
		return newEngine[field.M998244353](params, opts), nil
	case 469762049:
		return newEngine[field.M469762049](params, opts), nil
	case 167772161:
		return newEngine[field.M167772161](params, opts), nil
	case 754974721:
		return newEngine[field.M754974721](params, opts), nil
	case 1004535809:
		return newEngine[field.M1004535809](params, opts), nil
	case 2013265921:
		return newEngine[field.M2013265921](params, opts), nil
	case 7340033:
		return newEngine[field.M7340033](params, opts), nil
	case 65537:
		return newEngine[field.M65537](params, opts), nil
	case 257:
		return newEngine[field.M257](params, opts), nil
	}
	// Lookup and the switch above list the same moduli.
	panic("calc: registered modulus without engine")
}

type engine[P field.Modulus] struct {
	params field.Params
	opts   []poly.Option
}

func newEngine[P field.Modulus](params field.Params, opts []poly.Option) *engine[P] {
	return &engine[P]{params: params, opts: opts}
}

func (e *engine[P]) Params() field.Params { return e.params }

func (e *engine[P]) toPoly(a []int64) poly.Poly[P] { return poly.FromInts[P](a...) }

func (e *engine[P]) Mul(a, b []int64) ([]uint64, error) {
	p, err := e.toPoly(a).Mul(e.toPoly(b))
	if err != nil {
		return nil, err
	}
	return p.Values(), nil
}

func (e *engine[P]) Inv(a []int64, t int) ([]uint64, error) {
	return series(e.toPoly(a).Inv(t))
}

func (e *engine[P]) Derivative(a []int64) []uint64 {
	return e.toPoly(a).Derivative().Values()
}

func (e *engine[P]) Integral(a []int64) ([]uint64, error) {
	return series(e.toPoly(a).Integral())
}

func (e *engine[P]) Log(a []int64, t int) ([]uint64, error) {
	return series(e.toPoly(a).Log(t))
}

func (e *engine[P]) Exp(a []int64, t int) ([]uint64, error) {
	return series(e.toPoly(a).Exp(t))
}

func (e *engine[P]) Pow(a []int64, k uint64, t int) ([]uint64, error) {
	return series(e.toPoly(a).Pow(k, t))
}

func (e *engine[P]) DivMod(a, b []int64) (q, r []uint64, err error) {
	qp, rp, err := e.toPoly(a).DivMod(e.toPoly(b))
	if err != nil {
		return nil, nil, err
	}
	return qp.Values(), rp.Values(), nil
}

func (e *engine[P]) Rem(a, b []int64) ([]uint64, error) {
	return series(e.toPoly(a).Rem(e.toPoly(b), e.opts...))
}

func (e *engine[P]) MultiEval(a, points []int64) ([]uint64, error) {
	xs := make([]field.Element[P], len(points))
	for i, v := range points {
		xs[i] = field.New[P](v)
	}
	vals, err := e.toPoly(a).MultiEval(xs, e.opts...)
	if err != nil {
		return nil, err
	}
	out := make([]uint64, len(vals))
	for i, v := range vals {
		out[i] = v.Value()
	}
	return out, nil
}

func (e *engine[P]) PreWarm(maxLen int) {
	ntt.PreWarm[P](maxLen, 2)
}

func series[P field.Modulus](p poly.Poly[P], err error) ([]uint64, error) {
	if err != nil {
		return nil, err
	}
	return p.Values(), nil
}
