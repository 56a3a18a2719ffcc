/*
Package sketch implements the per-q-gram cardinality sketch.

A Sketch is a HyperLogLog register array of 2^b counters. Besides the standard
insert it has a shifted insert that adds a fixed boost to the computed rank,
which is how more frequent dictionary words inflate the estimate of the q-grams
they contain.

	cfg, err := sketch.NewConfig(10)
	s := sketch.New(cfg, sketch.DefaultHasher())
	s.InsertString("he_hello")
	s.ShiftedInsertString("he_help", 8)
	n := s.Estimate()

Sketches are not safe for concurrent use.
*/
package sketch

import (
	"math"
	"math/bits"
)

// maxShiftedRank caps rank+shift so registers stay well inside uint8.
const maxShiftedRank = 64

// two64 is 2^64 as a float.
var two64 = math.Ldexp(1, 64)

// Sketch estimates the number of distinct items inserted into it.
type Sketch struct {
	cfg       *Config
	hasher    Hasher
	registers []uint8
}

// New creates an empty sketch. A nil hasher falls back to DefaultHasher.
func New(cfg *Config, hasher Hasher) *Sketch {
	if hasher == nil {
		hasher = DefaultHasher()
	}
	return &Sketch{
		cfg:       cfg,
		hasher:    hasher,
		registers: make([]uint8, cfg.Registers()),
	}
}

// split returns the register index (top b bits) and the rank of the suffix.
func (s *Sketch) split(hash uint64) (uint64, uint8) {
	b := uint(s.cfg.Precision)
	j := hash >> (64 - b)
	w := (hash & s.cfg.Mask) << b

	rank := uint8(bits.LeadingZeros64(w)) + 1
	if limit := s.cfg.maxRank(); rank > limit {
		rank = limit
	}
	return j, rank
}

// Insert adds a pre-computed hash.
func (s *Sketch) Insert(hash uint64) {
	j, rank := s.split(hash)
	if rank > s.registers[j] {
		s.registers[j] = rank
	}
}

// ShiftedInsert adds a pre-computed hash with its rank boosted by shift.
// The boosted rank is clamped to 64.
func (s *Sketch) ShiftedInsert(hash uint64, shift int) {
	j, rank := s.split(hash)
	r := int(rank) + shift
	if r > maxShiftedRank {
		r = maxShiftedRank
	}
	if r < 0 {
		r = 0
	}
	if uint8(r) > s.registers[j] {
		s.registers[j] = uint8(r)
	}
}

// InsertString hashes item and inserts it.
func (s *Sketch) InsertString(item string) {
	s.Insert(s.hasher.Hash64(item))
}

// ShiftedInsertString hashes item and inserts it with a rank boost.
func (s *Sketch) ShiftedInsertString(item string, shift int) {
	s.ShiftedInsert(s.hasher.Hash64(item), shift)
}

// Estimate returns the bias-corrected cardinality estimate.
func (s *Sketch) Estimate() float64 {
	m := float64(len(s.registers))

	var z float64
	var zeros int
	for _, r := range s.registers {
		z += math.Ldexp(1, -int(r))
		if r == 0 {
			zeros++
		}
	}

	e := s.cfg.Alpha() * m * m / z

	switch {
	case e <= 2.5*m:
		if zeros != 0 {
			return m * math.Log(m/float64(zeros))
		}
		return e
	case e <= two64/30:
		return e
	default:
		// Shifted inserts can push E past 2^64 where the correction is undefined.
		if e >= two64 {
			return e
		}
		return -two64 * math.Log(1-e/two64)
	}
}

// Merge folds other into s by element-wise max.
func (s *Sketch) Merge(other *Sketch) error {
	if len(s.registers) != len(other.registers) {
		return ErrRegisterMismatch
	}
	for i, r := range other.registers {
		if r > s.registers[i] {
			s.registers[i] = r
		}
	}
	return nil
}

// Reset zeroes every register.
func (s *Sketch) Reset() {
	clear(s.registers)
}

// Registers returns a copy of the register array.
func (s *Sketch) Registers() []uint8 {
	out := make([]uint8, len(s.registers))
	copy(out, s.registers)
	return out
}

// Equal reports whether both sketches hold identical registers.
func (s *Sketch) Equal(other *Sketch) bool {
	if len(s.registers) != len(other.registers) {
		return false
	}
	for i, r := range s.registers {
		if other.registers[i] != r {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of s.
func (s *Sketch) Clone() *Sketch {
	return &Sketch{
		cfg:       s.cfg,
		hasher:    s.hasher,
		registers: s.Registers(),
	}
}

// Config returns the sketch parameters.
func (s *Sketch) Config() *Config {
	return s.cfg
}
