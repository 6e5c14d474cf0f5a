package field

import (
	"math/bits"

	apperrors "github.com/agbru/polycalc/internal/errors"
)

// Supported moduli. Each is a prime of the form c*2^k + 1 paired with a
// primitive root, so transforms of every power-of-two length up to 2^k exist.
type (
	M998244353  struct{} // 119*2^23 + 1
	M469762049  struct{} // 7*2^26 + 1
	M167772161  struct{} // 5*2^25 + 1
	M754974721  struct{} // 45*2^24 + 1
	M1004535809 struct{} // 479*2^21 + 1
	M2013265921 struct{} // 15*2^27 + 1
	M7340033    struct{} // 7*2^20 + 1
	M65537      struct{} // 2^16 + 1
	M257        struct{} // 2^8 + 1
)

// Default is the modulus used when none is specified.
type Default = M998244353

func (M998244353) Modulus() uint64 { return 998244353 }
func (M998244353) PrimitiveRoot() uint64 { return 3 }
func (M469762049) Modulus() uint64 { return 469762049 }
func (M469762049) PrimitiveRoot() uint64 { return 3 }
func (M167772161) Modulus() uint64 { return 167772161 }
func (M167772161) PrimitiveRoot() uint64 { return 3 }
func (M754974721) Modulus() uint64 { return 754974721 }
func (M754974721) PrimitiveRoot() uint64 { return 11 }
func (M1004535809) Modulus() uint64 { return 1004535809 }
func (M1004535809) PrimitiveRoot() uint64 { return 3 }
func (M2013265921) Modulus() uint64 { return 2013265921 }
func (M2013265921) PrimitiveRoot() uint64 { return 31 }
func (M7340033) Modulus() uint64 { return 7340033 }
func (M7340033) PrimitiveRoot() uint64 { return 3 }
func (M65537) Modulus() uint64 { return 65537 }
func (M65537) PrimitiveRoot() uint64 { return 3 }
func (M257) Modulus() uint64 { return 257 }
func (M257) PrimitiveRoot() uint64 { return 3 }

// Params describes one supported modulus.
type Params struct {
	// Modulus is the prime p.
	Modulus uint64
	// PrimitiveRoot generates the multiplicative group mod p.
	PrimitiveRoot uint64
	// TwoAdicity is the largest k with 2^k | p-1; transforms longer than
	// 2^k are impossible.
	TwoAdicity int
}

// MaxTransformLen returns 2^TwoAdicity.
func (p Params) MaxTransformLen() int { return 1 << p.TwoAdicity }

var registry = []Params{
	newParams(M998244353{}),
	newParams(M469762049{}),
	newParams(M167772161{}),
	newParams(M754974721{}),
	newParams(M1004535809{}),
	newParams(M2013265921{}),
	newParams(M7340033{}),
	newParams(M65537{}),
	newParams(M257{}),
}

func newParams(m interface {
	Modulus() uint64
	PrimitiveRoot() uint64
}) Params {
	return Params{
		Modulus:       m.Modulus(),
		PrimitiveRoot: m.PrimitiveRoot(),
		TwoAdicity:    bits.TrailingZeros64(m.Modulus() - 1),
	}
}

// Supported returns a copy of the registered moduli, default first.
func Supported() []Params {
	out := make([]Params, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the parameters registered for modulus m.
func Lookup(m uint64) (Params, error) {
	for _, p := range registry {
		if p.Modulus == m {
			return p, nil
		}
	}
	return Params{}, apperrors.NewArithmeticError("field.Lookup", apperrors.ErrUnsupportedModulus,
		"no primitive root registered for %d", m)
}

// ParamsOf returns the parameters of P after checking that its modulus is
// registered and that P declares the registered primitive root.
func ParamsOf[P Modulus]() (Params, error) {
	p, err := Lookup(ModulusOf[P]())
	if err != nil {
		return Params{}, err
	}
	if root := RootOf[P](); root != p.PrimitiveRoot {
		return Params{}, apperrors.NewArithmeticError("field.ParamsOf", apperrors.ErrUnsupportedModulus,
			"root %d is not the registered primitive root %d of %d", root, p.PrimitiveRoot, p.Modulus)
	}
	return p, nil
}

// Validate reports whether P is a supported (modulus, root) pair.
func Validate[P Modulus]() error {
	_, err := ParamsOf[P]()
	return err
}
