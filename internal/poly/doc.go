// Package poly implements dense univariate polynomials over the prime
// fields of package field, together with the fast algorithms built on the
// number-theoretic transform: multiplication, truncated power-series
// inverse, logarithm, exponential and power, Euclidean division and
// multipoint evaluation through a subproduct tree.
//
// Poly values are immutable. Every method returns a fresh value and never
// writes to the receiver or its arguments, so a Poly may be shared freely
// between goroutines.
//
// Series operators take a target length t and return exactly t
// coefficients (the answer modulo x^t), even when the top ones are zero.
// Everything else returns canonical values with no trailing zeros.
package poly
