package poly

import (
	"github.com/agbru/polycalc/internal/field"
)

// SubproductTree holds the products of (x - a_i) over a binary partition
// of the points a_0..a_(n-1). Nodes are stored in heap order: the root is
// node 1 and node k has children 2k and 2k+1. A node covering [lo, hi)
// splits at mid = (lo+hi)/2.
type SubproductTree[P field.Modulus] struct {
	points []field.Element[P]
	nodes  []Poly[P]
}

// NewSubproductTree builds the tree bottom-up. Every node is monic and its
// degree equals the number of points it covers. At least one point is
// required; an empty point set yields a tree whose Root is 1.
func NewSubproductTree[P field.Modulus](points []field.Element[P]) (*SubproductTree[P], error) {
	t := &SubproductTree[P]{points: append([]field.Element[P](nil), points...)}
	if len(points) == 0 {
		t.nodes = []Poly[P]{{}, Constant(field.One[P]())}
		return t, nil
	}
	t.nodes = make([]Poly[P], 4*len(points))
	if err := t.build(1, 0, len(points)); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *SubproductTree[P]) build(node, lo, hi int) error {
	if hi-lo == 1 {
		t.nodes[node] = New(t.points[lo].Neg(), field.One[P]())
		return nil
	}
	mid := (lo + hi) / 2
	if err := t.build(2*node, lo, mid); err != nil {
		return err
	}
	if err := t.build(2*node+1, mid, hi); err != nil {
		return err
	}
	prod, err := t.nodes[2*node].Mul(t.nodes[2*node+1])
	if err != nil {
		return err
	}
	t.nodes[node] = prod
	return nil
}

// Root returns the product of (x - a_i) over all points.
func (t *SubproductTree[P]) Root() Poly[P] { return t.nodes[1] }

// Len returns the number of points.
func (t *SubproductTree[P]) Len() int { return len(t.points) }

// MultiEval returns p(a_i) for every point, in order. Small point sets use
// Horner's rule per point; larger ones reduce p down a subproduct tree, so
// that each leaf remainder p mod (x - a_i) is the value at a_i.
func (p Poly[P]) MultiEval(points []field.Element[P], opts ...Option) ([]field.Element[P], error) {
	s := newSettings(opts)
	n := len(points)
	if n == 0 {
		return nil, nil
	}
	out := make([]field.Element[P], n)

	if n <= s.hornerThreshold {
		s.logger.Debug().Int("points", n).Int("degree", p.Degree()).Msg("multipoint evaluation via Horner")
		for i, x := range points {
			out[i] = p.Eval(x)
		}
		return out, nil
	}

	s.logger.Debug().Int("points", n).Int("degree", p.Degree()).Msg("multipoint evaluation via subproduct tree")
	tree, err := NewSubproductTree(points)
	if err != nil {
		return nil, err
	}
	r, err := p.rem(tree.Root(), s)
	if err != nil {
		return nil, err
	}
	if err := tree.descend(1, 0, n, r, out, s); err != nil {
		return nil, err
	}
	return out, nil
}

// descend writes the values of r at the points covered by node into out.
// r is already reduced modulo the node's polynomial.
func (t *SubproductTree[P]) descend(node, lo, hi int, r Poly[P], out []field.Element[P], s settings) error {
	if r.IsZero() {
		clear(out[lo:hi])
		return nil
	}
	if hi-lo == 1 {
		out[lo] = r.Coeff(0)
		return nil
	}
	mid := (lo + hi) / 2
	left, err := r.rem(t.nodes[2*node], s)
	if err != nil {
		return err
	}
	if err := t.descend(2*node, lo, mid, left, out, s); err != nil {
		return err
	}
	right, err := r.rem(t.nodes[2*node+1], s)
	if err != nil {
		return err
	}
	return t.descend(2*node+1, mid, hi, right, out, s)
}
