// Package randutil centralises how random sources are seeded and injected.
package randutil

import (
	rand "math/rand/v2"
	"sync"
	"time"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// Source yields uniform draws in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The helper centralises how we derive the two 64-bit seeds required by rand/v2
// so that all call sites get reproducible sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewFromTime seeds from the wall clock, for runs that did not ask for a seed.
func NewFromTime() (*rand.Rand, int64) {
	seed := time.Now().UnixNano()
	return New(seed), seed
}

// Child derives an independent generator from parent. Children created in
// the same order from the same parent are identical across runs.
func Child(parent *rand.Rand) *rand.Rand {
	return rand.New(rand.NewPCG(mix(parent.Uint64()), mix(parent.Uint64()^goldenRatio64)))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// Scripted replays a fixed list of draws, then repeats the last one.
type Scripted struct {
	mu    sync.Mutex
	draws []float64
	next  int
	calls int
}

// NewScripted returns a Source that yields draws in order.
func NewScripted(draws ...float64) *Scripted {
	if len(draws) == 0 {
		draws = []float64{0}
	}
	return &Scripted{draws: draws}
}

// Float64 returns the next scripted draw.
func (s *Scripted) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	v := s.draws[s.next]
	if s.next < len(s.draws)-1 {
		s.next++
	}
	return v
}

// Used reports how many draws have been taken.
func (s *Scripted) Used() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
