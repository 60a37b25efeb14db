package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/masaki925/marcov-rap/pkg/chain"
	"github.com/masaki925/marcov-rap/pkg/store"
)

// DefaultMaxSteps bounds a single walk.
const DefaultMaxSteps = 512

var (
	// ErrStepLimit is returned when a walk does not reach a sentence
	// boundary within the configured number of steps.
	ErrStepLimit = errors.New("walk exceeded step limit")
	// ErrNoSeed is returned by a reverse walk that finds no starting triplet.
	ErrNoSeed = errors.New("no seed triplet")
)

// Walker generates sentences from a chain store.
// MaxSteps <= 0 disables the step limit.
type Walker struct {
	Store     store.Reader
	Rand      Rand
	Relevance *Relevance
	MaxSteps  int
}

func (w *Walker) limitReached(steps int) bool {
	return w.MaxSteps > 0 && steps >= w.MaxSteps
}

// Forward builds a sentence from its beginning. The opening triplet is chosen
// by relevance to keywords, every later one by frequency.
func (w *Walker) Forward(ctx context.Context, keywords []string) (string, error) {
	starts, err := w.Store.LookupByPrefix(ctx, chain.Begin)
	if err != nil {
		return "", err
	}
	if len(starts) == 0 {
		return "", fmt.Errorf("sentence start: %w", ErrNoCandidates)
	}
	m, err := w.Relevance.Select(keywords, starts)
	if err != nil {
		return "", err
	}

	morphemes := []string{m.Row.Prefix2, m.Row.Suffix}
	for steps := 0; morphemes[len(morphemes)-1] != chain.End; steps++ {
		if w.limitReached(steps) {
			return "", fmt.Errorf("forward walk: %w (%d)", ErrStepLimit, w.MaxSteps)
		}
		a, b := morphemes[len(morphemes)-2], morphemes[len(morphemes)-1]
		rows, err := w.Store.LookupByPrefix(ctx, a, b)
		if err != nil {
			return "", err
		}
		next, err := Select(w.Rand, rows)
		if err != nil {
			return "", fmt.Errorf("after (%s, %s): %w", a, b, err)
		}
		morphemes = append(morphemes, next.Suffix)
	}
	return strings.Join(morphemes[:len(morphemes)-1], ""), nil
}

// Reverse builds a sentence backwards so that it ends on keyword. When no
// triplet ends on keyword, any sentence ending is used instead.
func (w *Walker) Reverse(ctx context.Context, keyword string) (string, error) {
	var (
		seeds []chain.Row
		err   error
	)
	if keyword != "" {
		if seeds, err = w.Store.LookupBySuffix(ctx, keyword); err != nil {
			return "", err
		}
	}
	if len(seeds) == 0 {
		if seeds, err = w.Store.LookupBySuffix(ctx, chain.End); err != nil {
			return "", err
		}
	}
	seed, err := Select(w.Rand, seeds)
	if err != nil {
		return "", fmt.Errorf("%w for %q", ErrNoSeed, keyword)
	}

	morphemes := []string{seed.Prefix1, seed.Prefix2, seed.Suffix}
	if seed.Suffix == chain.End {
		morphemes = morphemes[:2]
	}
	for steps := 0; morphemes[0] != chain.Begin; steps++ {
		if w.limitReached(steps) {
			return "", fmt.Errorf("reverse walk: %w (%d)", ErrStepLimit, w.MaxSteps)
		}
		a, b := morphemes[0], morphemes[1]
		rows, err := w.Store.LookupBySuffix(ctx, b, a)
		if err != nil {
			return "", err
		}
		prev, err := Select(w.Rand, rows)
		if err != nil {
			return "", fmt.Errorf("before (%s, %s): %w", a, b, err)
		}
		morphemes = append([]string{prev.Prefix1}, morphemes...)
	}
	return strings.Join(morphemes[1:], ""), nil
}
