package sketch

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-metro"
	"github.com/zeebo/xxh3"
)

// DefaultSeed is the fixed seed used by seeded hashers.
const DefaultSeed uint64 = 42

// Hasher maps a string to a 64-bit hash. Implementations must be deterministic
// across processes so that sketches built from the same words are identical.
type Hasher interface {
	Hash64(s string) uint64
	Name() string
}

type xxh3Hasher struct{}

// HashString avoids the []byte conversion.
func (xxh3Hasher) Hash64(s string) uint64 { return xxh3.HashString(s) }
func (xxh3Hasher) Name() string           { return "xxh3" }

type xxhashHasher struct{}

func (xxhashHasher) Hash64(s string) uint64 { return xxhash.Sum64String(s) }
func (xxhashHasher) Name() string           { return "xxhash" }

type metroHasher struct {
	seed uint64
}

func (h metroHasher) Hash64(s string) uint64 { return metro.Hash64([]byte(s), h.seed) }
func (metroHasher) Name() string             { return "metro" }

// DefaultHasher returns the hasher used when none is configured.
func DefaultHasher() Hasher {
	return xxh3Hasher{}
}

// NewHasher returns a hasher by name: "xxh3" (default, also for ""),
// "xxhash" or "metro".
func NewHasher(name string) (Hasher, error) {
	switch name {
	case "", "xxh3":
		return xxh3Hasher{}, nil
	case "xxhash":
		return xxhashHasher{}, nil
	case "metro":
		return metroHasher{seed: DefaultSeed}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownHasher, name)
}
