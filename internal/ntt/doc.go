// Package ntt implements the number-theoretic transform over the prime
// fields of package field and the cyclic convolution built on it.
//
// A transform of length n requires n to be a power of two that divides
// p-1. Root tables for each (modulus, length, direction) are computed once
// and shared; scratch buffers are recycled through size-class pools.
package ntt
