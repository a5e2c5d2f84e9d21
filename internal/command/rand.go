package command

import (
	"math/rand/v2"
	"sync"
)

// Rand is a random source shared by concurrent invocations.
type Rand interface {
	IntN(n int) int
}

type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

// NewRand returns a seeded source that is safe for concurrent use.
func NewRand(seed uint64) Rand {
	return rand.New(&lockedSource{src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)})
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand returns the runtime's global source.
func DefaultRand() Rand {
	return globalRand{}
}
