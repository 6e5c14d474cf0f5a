package ntt

import (
	"math/bits"
	"sync"

	"github.com/agbru/polycalc/internal/field"
)

// Scratch buffers are pooled per modulus type in power-of-two size classes
// from 2^minPoolClass to 2^maxPoolClass elements. Larger requests are
// allocated directly and left to the GC.
const (
	minPoolClass = 4
	maxPoolClass = 24
)

type poolKey struct {
	kind  any
	class int
}

var elementPools sync.Map // poolKey -> *sync.Pool

// poolClass returns the size class holding size elements, or -1 if size is
// too large for pooling.
func poolClass(size int) int {
	if size <= 1<<minPoolClass {
		return minPoolClass
	}
	c := bits.Len(uint(size - 1))
	if c > maxPoolClass {
		return -1
	}
	return c
}

func poolFor[P field.Modulus](class int) *sync.Pool {
	var kind P
	key := poolKey{kind: kind, class: class}
	if p, ok := elementPools.Load(key); ok {
		return p.(*sync.Pool)
	}
	p := &sync.Pool{New: func() any { return make([]field.Element[P], 1<<class) }}
	actual, _ := elementPools.LoadOrStore(key, p)
	return actual.(*sync.Pool)
}

// acquire returns a zeroed buffer of exactly size elements. It should be
// paired with release:
//
//	buf := acquire[P](n)
//	defer release(buf)
func acquire[P field.Modulus](size int) []field.Element[P] {
	class := poolClass(size)
	if class < 0 {
		return make([]field.Element[P], size)
	}
	buf := poolFor[P](class).Get().([]field.Element[P])
	clear(buf)
	return buf[:size]
}

// release returns buf to its pool. Buffers that were not obtained from
// acquire are dropped. Safe to call with nil.
func release[P field.Modulus](buf []field.Element[P]) {
	if buf == nil {
		return
	}
	c := cap(buf)
	class := poolClass(c)
	if class >= 0 && 1<<class == c {
		poolFor[P](class).Put(buf[:c])
	}
}

// PreWarm seeds the pools with buffers large enough to multiply two
// polynomials of maxLen coefficients, so the first convolutions of a batch
// do not allocate. count buffers are added to the matching size class.
func PreWarm[P field.Modulus](maxLen, count int) {
	if maxLen <= 0 || count <= 0 {
		return
	}
	n := 1
	for n < 2*maxLen-1 {
		n <<= 1
	}
	class := poolClass(n)
	if class < 0 {
		return
	}
	p := poolFor[P](class)
	for range count {
		p.Put(make([]field.Element[P], 1<<class))
	}
}
