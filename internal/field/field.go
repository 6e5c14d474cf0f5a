package field

import (
	"strconv"

	apperrors "github.com/agbru/polycalc/internal/errors"
)

// Modulus binds a prime modulus and one of its primitive roots to a type.
// Implementations are zero-size struct types; see M998244353 and friends.
type Modulus interface {
	comparable
	// Modulus returns the prime p.
	Modulus() uint64
	// PrimitiveRoot returns a generator of the multiplicative group mod p.
	PrimitiveRoot() uint64
}

// Integer is the set of built-in integer types accepted by New.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Element is a residue modulo P. The zero value is 0.
// The stored value is always canonical (in [0, p)).
type Element[P Modulus] struct {
	v uint64
}

// ModulusOf returns the modulus bound to P.
func ModulusOf[P Modulus]() uint64 {
	var p P
	return p.Modulus()
}

// RootOf returns the primitive root bound to P.
func RootOf[P Modulus]() uint64 {
	var p P
	return p.PrimitiveRoot()
}

// New reduces x into the field. Negative values map to their canonical
// representative, so New[P](-1) is p-1.
func New[P Modulus, I Integer](x I) Element[P] {
	m := ModulusOf[P]()
	if x < 0 {
		r := int64(x) % int64(m)
		if r < 0 {
			r += int64(m)
		}
		return Element[P]{v: uint64(r)}
	}
	return Element[P]{v: uint64(x) % m}
}

// Zero returns the additive identity.
func Zero[P Modulus]() Element[P] { return Element[P]{} }

// One returns the multiplicative identity.
func One[P Modulus]() Element[P] { return Element[P]{v: 1 % ModulusOf[P]()} }

// Value returns the canonical representative in [0, p).
func (x Element[P]) Value() uint64 { return x.v }

// IsZero reports whether x is the additive identity.
func (x Element[P]) IsZero() bool { return x.v == 0 }

// Equal reports whether x and y are the same residue.
func (x Element[P]) Equal(y Element[P]) bool { return x.v == y.v }

// String formats the canonical representative in base 10.
func (x Element[P]) String() string { return strconv.FormatUint(x.v, 10) }

// Add returns x + y.
func (x Element[P]) Add(y Element[P]) Element[P] {
	s := x.v + y.v
	if m := ModulusOf[P](); s >= m {
		s -= m
	}
	return Element[P]{v: s}
}

// Sub returns x - y.
func (x Element[P]) Sub(y Element[P]) Element[P] {
	if x.v >= y.v {
		return Element[P]{v: x.v - y.v}
	}
	return Element[P]{v: x.v + ModulusOf[P]() - y.v}
}

// Neg returns -x.
func (x Element[P]) Neg() Element[P] {
	if x.v == 0 {
		return x
	}
	return Element[P]{v: ModulusOf[P]() - x.v}
}

// Mul returns x * y.
func (x Element[P]) Mul(y Element[P]) Element[P] {
	return Element[P]{v: x.v * y.v % ModulusOf[P]()}
}

// Pow returns x^e by square-and-multiply. Pow(0) is 1 for every x,
// including zero.
func (x Element[P]) Pow(e uint64) Element[P] {
	m := ModulusOf[P]()
	result := uint64(1) % m
	base := x.v
	for e > 0 {
		if e&1 == 1 {
			result = result * base % m
		}
		base = base * base % m
		e >>= 1
	}
	return Element[P]{v: result}
}

// Inverse returns x^-1 computed with the extended Euclidean algorithm.
// It fails with ErrNoInverseExists when gcd(x, p) != 1, which for a prime
// modulus only happens for zero.
func (x Element[P]) Inverse() (Element[P], error) {
	m := int64(ModulusOf[P]())
	a, b := int64(x.v), m
	u, v := int64(1), int64(0)
	for b != 0 {
		q := a / b
		a, b = b, a-q*b
		u, v = v, u-q*v
	}
	if a != 1 {
		return Element[P]{}, apperrors.NewArithmeticError("field.Inverse", apperrors.ErrNoInverseExists,
			"gcd(%d, %d) = %d", x.v, m, a)
	}
	u %= m
	if u < 0 {
		u += m
	}
	return Element[P]{v: uint64(u)}, nil
}

// Div returns x / y. A zero divisor fails with ErrDivisionByZero.
func (x Element[P]) Div(y Element[P]) (Element[P], error) {
	if y.IsZero() {
		return Element[P]{}, apperrors.NewArithmeticError("field.Div", apperrors.ErrDivisionByZero, "")
	}
	inv, err := y.Inverse()
	if err != nil {
		return Element[P]{}, err
	}
	return x.Mul(inv), nil
}
