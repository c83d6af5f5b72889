package engine

import (
	"math/rand/v2"
	"slices"
	"sync"
)

// Sampler picks min(n, len(ids)) distinct elements of ids, each subset of that
// size being equally likely. ids must not be modified.
type Sampler interface {
	Sample(ids []int64, n int) []int64
}

// RandomSampler performs a partial Fisher-Yates shuffle over a copy of ids.
type RandomSampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomSampler() *RandomSampler {
	return NewSeededSampler(rand.Uint64(), rand.Uint64())
}

func NewSeededSampler(seed1, seed2 uint64) *RandomSampler {
	return &RandomSampler{rng: rand.New(rand.NewPCG(seed1, seed2))} //nolint:gosec // cohort sampling, not security
}

func (s *RandomSampler) Sample(ids []int64, n int) []int64 {
	if n > len(ids) {
		n = len(ids)
	}
	if n <= 0 {
		return nil
	}
	pool := slices.Clone(ids)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n; i++ {
		j := i + s.rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n:n]
}
