// Package randutil centralises how the game derives random sources so that
// every shuffle, simulation and bluff can be replayed from a single seed.
package randutil

import (
	"math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewSeed returns a seed for interactive sessions that did not ask for one.
func NewSeed() int64 {
	return time.Now().UnixNano()
}

// Split derives n independent generators from parent. Each child is seeded
// from a fresh draw of parent, so the children are reproducible whenever the
// parent is.
func Split(parent *rand.Rand, n int) []*rand.Rand {
	children := make([]*rand.Rand, n)
	for i := range children {
		children[i] = rand.New(rand.NewPCG(parent.Uint64(), mix(parent.Uint64())))
	}
	return children
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
