package sketch

import (
	"errors"
	"fmt"
)

const (
	// MinPrecision and MaxPrecision bound the register-count exponent b.
	MinPrecision = 1
	MaxPrecision = 16

	// DefaultPrecision gives 1024 registers per sketch.
	DefaultPrecision = 10
)

var (
	ErrPrecision        = errors.New("sketch precision out of range")
	ErrRegisterMismatch = errors.New("cannot merge sketches with different register counts")
	ErrUnknownHasher    = errors.New("unknown hasher")
)

// Config holds the immutable parameters shared by every sketch built from it.
type Config struct {
	// Precision is b, the sketch keeps 2^b registers.
	Precision uint8
	// AlphaOverride replaces the bias-correction constant when > 0.
	AlphaOverride float64
	// Mask keeps the low 64-b bits of a hash, the part used for ranks.
	Mask uint64
}

// NewConfig validates the precision and derives the hash mask.
func NewConfig(b int) (*Config, error) {
	if b < MinPrecision || b > MaxPrecision {
		return nil, fmt.Errorf("%w: b=%d, want %d..%d", ErrPrecision, b, MinPrecision, MaxPrecision)
	}
	return &Config{
		Precision: uint8(b),
		Mask:      (uint64(1) << (64 - uint(b))) - 1,
	}, nil
}

// WithAlpha returns a copy of c using alpha as bias-correction constant.
func (c *Config) WithAlpha(alpha float64) *Config {
	cp := *c
	cp.AlphaOverride = alpha
	return &cp
}

// Registers returns m = 2^b.
func (c *Config) Registers() int {
	return 1 << c.Precision
}

// Alpha returns the bias-correction constant alpha_m.
func (c *Config) Alpha() float64 {
	if c.AlphaOverride > 0 {
		return c.AlphaOverride
	}
	m := c.Registers()
	switch m {
	case 16:
		return 0.673
	case 32:
		return 0.697
	case 64:
		return 0.709
	default:
		return 0.7213 / (1.0 + 1.079/float64(m))
	}
}

// maxRank is the largest rank an unshifted insert can produce.
func (c *Config) maxRank() uint8 {
	return 64 - c.Precision + 1
}
