package dice

import (
	crand "crypto/rand"
	"math/big"
	"math/rand/v2"
	"sync"
)

func mustPositive(n int) {
	if n <= 0 {
		panic("dice.Source.Intn: precondition violated: n must be > 0")
	}
}

type cryptoSource struct{}

// NewCryptoSource returns the default Source, backed by crypto/rand. It is
// safe for concurrent use and panics if the system randomness fails.
func NewCryptoSource() Source {
	return cryptoSource{}
}

func (cryptoSource) Intn(n int) int {
	mustPositive(n)
	v, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: reading crypto/rand: " + err.Error())
	}
	return int(v.Int64())
}

// pcgSource is a mutex-guarded PCG stream.
type pcgSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededSource returns a reproducible Source. Sources built from the same
// seed yield the same sequence, which makes -seed runs and tests repeatable.
func NewSeededSource(seed uint64) Source {
	return &pcgSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *pcgSource) Intn(n int) int {
	mustPositive(n)
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.IntN(n)
}
