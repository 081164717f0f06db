package engine

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Rand is a xorshift64 generator. It is reproducible from a single seed and
// is not suitable for anything security related.
type Rand struct {
	state uint64
}

// NewRand returns a generator for seed. xorshift can't start at 0, so a zero
// seed is corrected to 1.
func NewRand(seed uint64) *Rand {
	if seed == 0 {
		seed = 1
	}
	return &Rand{state: seed}
}

// Uint64 advances the generator.
func (r *Rand) Uint64() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	r.state = x
	return x
}

// Intn returns a number in [0, n). n must be positive.
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		panic("engine: Intn called with non-positive n")
	}
	return int(r.Uint64() % uint64(n))
}

// SeedFrom derives a deal seed from a room code and the deal timestamp
// (milliseconds). The same pair always reproduces the same shuffle.
func SeedFrom(roomCode string, timestampMillis int64) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(roomCode)
	_, _ = d.WriteString(":")
	_, _ = d.WriteString(strconv.FormatInt(timestampMillis, 10))
	return d.Sum64()
}
