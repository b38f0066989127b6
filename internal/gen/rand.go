package gen

import (
	"fmt"
	"math/rand"
)

// Stream is the single source of randomness for program generation. Every
// decision draws from one seeded stream, so a seed together with a set of
// tunables reproduces a program exactly.
type Stream struct {
	r *rand.Rand
}

// NewStream creates a stream seeded with seed.
func NewStream(seed int64) *Stream {
	return &Stream{r: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform int in [0, n). It panics if n <= 0.
func (s *Stream) Intn(n int) int {
	return s.r.Intn(n)
}

// IntRange returns a uniform int in [lo, hi). It panics if the range is
// empty.
func (s *Stream) IntRange(lo, hi int) int {
	if hi <= lo {
		panic(fmt.Sprintf("empty range [%d, %d)", lo, hi))
	}
	return lo + s.r.Intn(hi-lo)
}

// IntInclusive returns a uniform int in [lo, hi].
func (s *Stream) IntInclusive(lo, hi int) int {
	return s.IntRange(lo, hi+1)
}
