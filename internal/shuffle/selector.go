package shuffle

import (
	"math/rand/v2"

	"github.com/justestif/go-omakase-shuffle/internal/spotify"
)

// Selector picks one track uniformly at random. The default source is
// seeded by the runtime, so picks are not reproducible across runs.
type Selector struct {
	intN func(n int) int
}

// NewSelector creates a Selector using the global math/rand/v2 source.
func NewSelector() *Selector {
	return &Selector{intN: rand.IntN}
}

// Pick returns a random track from pool. pool must not be empty.
func (s *Selector) Pick(pool []spotify.Track) spotify.Track {
	return pool[s.intN(len(pool))]
}
