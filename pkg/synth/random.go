package synth

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Rand is the random source shared by all sessions of a generator. The
// underlying rand.Source is not goroutine-safe, so every draw is serialized.
type Rand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func newRand(src rand.Source) *Rand {
	return &Rand{r: rand.New(src)}
}

func seededSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

func timeSource() rand.Source {
	return seededSource(uint64(time.Now().UnixNano()))
}

// IntN returns a value in [0, n). n <= 0 returns 0.
func (r *Rand) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.IntN(n)
}

// Between returns a value in [min, max]
func (r *Rand) Between(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.IntN(max-min+1)
}

// Int64N returns a value in [0, n)
func (r *Rand) Int64N(n int64) int64 {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.Int64N(n)
}

// Uint64 returns a uniformly distributed uint64
func (r *Rand) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.Uint64()
}

// Float64 returns a value in [0, 1)
func (r *Rand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.r.Float64()
}

// Bool returns true half of the time
func (r *Rand) Bool() bool {
	return r.IntN(2) == 1
}

// Read fills p with random bytes; it never fails. Rand is an io.Reader so it
// can feed uuid.NewRandomFromReader.
func (r *Rand) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 0; i < len(p); {
		v := r.r.Uint64()
		for j := 0; j < 8 && i < len(p); j++ {
			p[i] = byte(v)
			v >>= 8
			i++
		}
	}
	return len(p), nil
}
