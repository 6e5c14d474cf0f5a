// Package field implements arithmetic in the prime fields Z/pZ used by the
// number-theoretic transform.
//
// The modulus is part of the type: an Element[M998244353] can never be mixed
// with an Element[M469762049] without an explicit conversion, so the compiler
// rejects cross-field arithmetic. Every supported modulus is below 2^32, which
// keeps the product of two residues inside a uint64.
//
// The set of accepted (modulus, primitive root) pairs is fixed; Supported and
// Lookup expose it so callers can validate a runtime modulus before choosing
// an instantiation.
package field
