package qgram

import (
	"math/bits"
	"sort"
)

// Bits is a dense bit-vector over vocabulary indices.
type Bits []uint64

// NewBits returns a zeroed vector able to hold n bits.
func NewBits(n int) Bits {
	return make(Bits, (n+63)/64)
}

func (b Bits) Set(i int) {
	b[i>>6] |= 1 << (uint(i) & 63)
}

func (b Bits) Has(i int) bool {
	if i>>6 >= len(b) {
		return false
	}
	return b[i>>6]&(1<<(uint(i)&63)) != 0
}

// Count is the popcount of the vector.
func (b Bits) Count() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}
	return n
}

// AndCount is the popcount of b & o without allocating. Vectors of different
// lengths are compared over the shorter one.
func (b Bits) AndCount(o Bits) int {
	n := min(len(b), len(o))
	c := 0
	for i := 0; i < n; i++ {
		c += bits.OnesCount64(b[i] & o[i])
	}
	return c
}

// Equal compares set bits, ignoring trailing zero words.
func (b Bits) Equal(o Bits) bool {
	long, short := b, o
	if len(o) > len(b) {
		long, short = o, b
	}
	for i := range short {
		if short[i] != long[i] {
			return false
		}
	}
	for _, w := range long[len(short):] {
		if w != 0 {
			return false
		}
	}
	return true
}

// Vocabulary is the sorted set of distinct grams. A gram's index is its sort
// position.
type Vocabulary []string

// Index returns the position of gram, if present.
func (v Vocabulary) Index(gram string) (int, bool) {
	i := sort.SearchStrings(v, gram)
	if i < len(v) && v[i] == gram {
		return i, true
	}
	return 0, false
}

func (v Vocabulary) Len() int {
	return len(v)
}

// bitsFor sets one bit per gram of word found in v.
func (v Vocabulary) bitsFor(grams []string) Bits {
	b := NewBits(len(v))
	for _, g := range grams {
		if i, ok := v.Index(g); ok {
			b.Set(i)
		}
	}
	return b
}
