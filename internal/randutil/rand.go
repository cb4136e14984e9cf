// Package randutil builds math/rand/v2 sources for the engine. Every
// component that shuffles or rolls dice takes a *rand.Rand so tests can pin
// the sequence with a fixed seed.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a PCG-backed *rand.Rand derived deterministically from seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewTimeSeeded returns a source seeded from the wall clock, for production use.
func NewTimeSeeded() *rand.Rand {
	return New(time.Now().UnixNano())
}

// Child derives an independent source from parent, so components that need
// their own stream do not share one *rand.Rand across goroutines.
func Child(parent *rand.Rand) *rand.Rand {
	return New(parent.Int64())
}

// splitmix64 finaliser
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
