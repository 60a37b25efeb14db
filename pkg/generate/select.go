package generate

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/masaki925/marcov-rap/pkg/chain"
)

// ErrNoCandidates is returned when a selection or walk step has nothing to
// choose from.
var ErrNoCandidates = errors.New("no candidate triplets")

// Rand is the randomness used by selection and keyword shuffling.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand returns a goroutine-safe Rand. A zero seed draws one from the clock.
func NewRand(seed int64) Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}

// Select picks one row with probability freq / sum(freq).
func Select(r Rand, candidates []chain.Row) (chain.Row, error) {
	total := 0
	for _, c := range candidates {
		if c.Freq > 0 {
			total += c.Freq
		}
	}
	if total == 0 {
		return chain.Row{}, ErrNoCandidates
	}
	x := r.Intn(total)
	for _, c := range candidates {
		if c.Freq <= 0 {
			continue
		}
		if x < c.Freq {
			return c, nil
		}
		x -= c.Freq
	}
	return candidates[len(candidates)-1], nil
}
