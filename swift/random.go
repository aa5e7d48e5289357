package swift

import (
	"math/rand/v2"
	"sync"
)

// RandomNumberGenerator produces uniformly distributed 64-bit values.
type RandomNumberGenerator interface {
	Next() uint64
}

type systemRandom struct{}

func (systemRandom) Next() uint64 { return rand.Uint64() }

// SystemRandom draws from the runtime's shared generator.
var SystemRandom RandomNumberGenerator = systemRandom{}

// SeededRandom is a deterministic generator. It is safe for concurrent use.
type SeededRandom struct {
	mu  sync.Mutex
	src *rand.PCG
}

// NewSeededRandom returns a generator whose sequence depends only on seed.
func NewSeededRandom(seed uint64) *SeededRandom {
	return &SeededRandom{src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
}

// Next implements RandomNumberGenerator.
func (g *SeededRandom) Next() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.src.Uint64()
}

// RandomIndex returns a uniform value in [0, n) drawn from g. It rejects
// the biased tail instead of taking a plain modulus.
func RandomIndex(g RandomNumberGenerator, n int) int {
	if n <= 0 {
		precondition("random", "upper bound must be positive")
	}
	bound := uint64(n)
	threshold := -bound % bound
	for {
		v := g.Next()
		if v >= threshold {
			return int(v % bound)
		}
	}
}

// RandomElement returns a uniformly chosen element of c.
func RandomElement[E any](c Collection[E], g RandomNumberGenerator) (E, bool) {
	n := c.Count()
	if n == 0 {
		var zero E
		return zero, false
	}
	return c.At(RandomIndex(g, n)), true
}
