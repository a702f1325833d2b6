package trend

import (
	"math/rand"
	"sync"
	"time"
)

// Random is a goroutine-safe source of the draws used by simulated signals
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom creates a Random; seed 0 seeds from the clock
func NewRandom(seed int64) *Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

// Float64 returns a value in [0,1)
func (r *Random) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// Uniform returns a value in [lo,hi)
func (r *Random) Uniform(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// IntRange returns an integer in [lo,hi]
func (r *Random) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo + r.rng.Intn(hi-lo+1)
}
