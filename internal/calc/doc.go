// Package calc exposes the polynomial engine behind a modulus chosen at run
// time.
//
// The algebra in package poly binds the modulus to a type parameter. A
// program that reads the modulus from a flag cannot name that type, so
// NewEngine switches over the registered moduli once and returns an Engine
// that works on plain integers. Mismatches are impossible after that point:
// every call on one Engine runs in the same field.
//
// The operation registry maps the names accepted on the command line to
// the Engine calls they perform.
package calc
