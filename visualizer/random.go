package visualizer

import (
	"hash/fnv"
	"math/rand"
)

// DefaultSeed keeps geometry and palette choices identical across runs.
const DefaultSeed = "1"

// NewRand returns a generator seeded from an arbitrary string.
//
// Parameters:
//   - seed: the seed text
//
// Returns:
//   - *rand.Rand: the seeded generator
func NewRand(seed string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}
