package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// Rand is the source of every probability roll the engine makes.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	// Float64 returns a uniform value in [0,1).
	Float64() float64
	// IntN returns a uniform value in [0,n). Panics if n <= 0.
	IntN(n int) int
}

// NewSeededRand returns a PCG generator fixed by seed. The same seed and the
// same sequence of engine calls reproduce the same match.
func NewSeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewEntropyRand returns a PCG generator seeded from crypto/rand.
func NewEntropyRand() *rand.Rand {
	var buf [16]byte
	if _, err := crand.Read(buf[:]); err != nil {
		panic("engine: read entropy seed: " + err.Error())
	}
	return rand.New(rand.NewPCG(
		binary.LittleEndian.Uint64(buf[:8]),
		binary.LittleEndian.Uint64(buf[8:]),
	))
}
