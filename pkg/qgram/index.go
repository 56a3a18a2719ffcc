package qgram

import (
	"sort"

	"github.com/bastiangx/wordcorrect/pkg/sketch"
)

// ShiftFunc returns the rank boost for the word at position idx.
type ShiftFunc func(idx int) int

// Index holds one sketch per gram, the sorted vocabulary and one bit-vector
// per word, addressed by the word's position.
type Index struct {
	cfg      *sketch.Config
	hasher   sketch.Hasher
	sketches map[string]*sketch.Sketch
	vocab    Vocabulary
	bits     []Bits
}

// NewIndex returns an empty index. A nil hasher uses sketch.DefaultHasher.
func NewIndex(cfg *sketch.Config, hasher sketch.Hasher) *Index {
	if hasher == nil {
		hasher = sketch.DefaultHasher()
	}
	return &Index{
		cfg:      cfg,
		hasher:   hasher,
		sketches: make(map[string]*sketch.Sketch),
	}
}

func (ix *Index) insert(word string, shift int) {
	for _, gram := range Extract(word, false) {
		s, ok := ix.sketches[gram]
		if !ok {
			s = sketch.New(ix.cfg, ix.hasher)
			ix.sketches[gram] = s
		}
		s.ShiftedInsertString(sketchKey(gram, word), shift)
	}
}

func (ix *Index) sortedGrams() Vocabulary {
	v := make(Vocabulary, 0, len(ix.sketches))
	for gram := range ix.sketches {
		v = append(v, gram)
	}
	sort.Strings(v)
	return v
}

// Rebuild discards all state and indexes words from scratch.
func (ix *Index) Rebuild(words []string, shift ShiftFunc) {
	ix.sketches = make(map[string]*sketch.Sketch)
	for idx, word := range words {
		ix.insert(word, shift(idx))
	}

	ix.vocab = ix.sortedGrams()
	ix.bits = make([]Bits, len(words))
	for idx, word := range words {
		ix.bits[idx] = ix.vocab.bitsFor(Extract(word, false))
	}
}

// Append indexes words placed after the ones already held. shift is called
// with absolute positions. When new grams appear the vocabulary is re-sorted
// and every existing vector is widened with its bits moved to the grams' new
// positions, so the result matches a Rebuild over the full list.
func (ix *Index) Append(words []string, shift ShiftFunc) {
	base := len(ix.bits)
	for i, word := range words {
		ix.insert(word, shift(base+i))
	}

	if len(ix.sketches) != len(ix.vocab) {
		next := ix.sortedGrams()
		remap := make([]int, len(ix.vocab))
		for old, gram := range ix.vocab {
			remap[old], _ = next.Index(gram)
		}
		for i, b := range ix.bits {
			widened := NewBits(len(next))
			for old, to := range remap {
				if b.Has(old) {
					widened.Set(to)
				}
			}
			ix.bits[i] = widened
		}
		ix.vocab = next
	}

	for _, word := range words {
		ix.bits = append(ix.bits, ix.vocab.bitsFor(Extract(word, false)))
	}
}

// QueryBits builds the fuzzier gram vector of a query against the current
// vocabulary. Grams unknown to the dictionary are dropped.
func (ix *Index) QueryBits(word string) Bits {
	return ix.vocab.bitsFor(Extract(word, true))
}

// Vocabulary returns the sorted gram list. Callers must not modify it.
func (ix *Index) Vocabulary() Vocabulary {
	return ix.vocab
}

// Bits returns the vector of the word at idx. Callers must not modify it.
func (ix *Index) Bits(idx int) Bits {
	return ix.bits[idx]
}

// Len is the number of indexed words.
func (ix *Index) Len() int {
	return len(ix.bits)
}

// SketchCount is the number of distinct grams with a sketch.
func (ix *Index) SketchCount() int {
	return len(ix.sketches)
}

// Sketch returns the sketch of gram, if any word contains it.
func (ix *Index) Sketch(gram string) (*sketch.Sketch, bool) {
	s, ok := ix.sketches[gram]
	return s, ok
}

// Estimate is the sketch estimate for gram, 0 for unknown grams.
func (ix *Index) Estimate(gram string) float64 {
	if s, ok := ix.sketches[gram]; ok {
		return s.Estimate()
	}
	return 0
}
