// Package similarity scores how close pairs of short Japanese texts are.
package similarity

import (
	"context"
	"fmt"
	"strings"

	"github.com/gyuho/goling/similar"
)

// Backend names accepted by New.
const (
	BackendLexical = "lexical"
	BackendOpenAI  = "openai"
)

// Score is the similarity of one (ref, hyp) pair.
type Score struct {
	Precision float64
	Recall    float64
	F1        float64
}

// Scorer scores refs[i] against hyps[i] for every i.
type Scorer interface {
	Score(ctx context.Context, refs, hyps []string) ([]Score, error)
}

// Lexical compares the character bags of both texts.
// It needs no model and is the default backend.
type Lexical struct{}

// Score implements Scorer.
func (Lexical) Score(_ context.Context, refs, hyps []string) ([]Score, error) {
	if err := checkPairs(refs, hyps); err != nil {
		return nil, err
	}
	scores := make([]Score, len(refs))
	for i := range refs {
		f := similar.Cosine([]byte(spaced(refs[i])), []byte(spaced(hyps[i])))
		scores[i] = Score{Precision: f, Recall: f, F1: f}
	}
	return scores, nil
}

// spaced separates runes so that each character is one term.
func spaced(s string) string {
	rs := []rune(s)
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}

func checkPairs(refs, hyps []string) error {
	if len(refs) != len(hyps) {
		return fmt.Errorf("similarity: %d refs but %d hyps", len(refs), len(hyps))
	}
	return nil
}
