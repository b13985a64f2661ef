package game

import (
	rand "math/rand/v2"
	"sync"

	"github.com/lox/bingohall/internal/randutil"
)

// Provider is the injectable randomness source consumed by draws and board
// generation. Values are raw bytes; callers reduce modulo 255 so the usable
// range is [0,255). Implementations are not required to be cryptographically
// unpredictable.
type Provider interface {
	Next() byte
}

// SeededProvider produces bytes from a deterministic PCG stream. It is the
// production provider and doubles as a reproducible source for simulations.
// One provider is shared by every session, so Next serializes access to the
// underlying rand.Rand, which is not safe for concurrent use.
type SeededProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededProvider builds a provider from a single int64 seed.
func NewSeededProvider(seed int64) *SeededProvider {
	return &SeededProvider{rng: randutil.New(seed)}
}

// Next returns the next byte from the stream.
func (p *SeededProvider) Next() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return byte(p.rng.Uint64())
}
