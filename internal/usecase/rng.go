package usecase

import (
	"math/rand"
	"sync"
	"time"
)

// Rand supplies uniform random numbers for the fallback pass decision.
// Injectable so tests can pin outcomes.
type Rand interface {
	Float64() float64
}

// lockedRand guards a math/rand source; classify calls run concurrently
// within a batch.
type lockedRand struct {
	mu  sync.Mutex
	src *rand.Rand
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Float64()
}

// NewRand returns a time-seeded concurrent-safe source.
func NewRand() Rand {
	return &lockedRand{src: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededRand returns a deterministic source for tests and replay.
func NewSeededRand(seed int64) Rand {
	return &lockedRand{src: rand.New(rand.NewSource(seed))}
}
