/*
Package rhyme measures how well a generated line lands on a killer phrase.

Both texts are reduced to their vowel skeleton (katakana reading, romanized,
consonants dropped) and compared by the longest shared ending. The rhyme
count is then bent by semantic similarity and relative length into a single
integer distance:

	distance = int(rhyme ^ ((1 - simLine) * (simAnchor * 10) * (1 + lenRate)))

where simLine compares the two texts and simAnchor is the best match between
the anchor word and any noun of either text. Larger is better.
*/
package rhyme

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/masaki925/marcov-rap/internal/utils"
	"github.com/masaki925/marcov-rap/pkg/morph"
	"github.com/masaki925/marcov-rap/pkg/similarity"
)

// DefaultMinRhyme is the shortest vowel run that counts as a rhyme.
const DefaultMinRhyme = 2

// CountRhyme returns the length of the longest vowel run shared by a and b.
// Suffixes of the shorter string are tried first (longest to shortest), then
// its proper prefixes. Anything shorter than minRhyme scores 0.
// The result does not depend on argument order.
func CountRhyme(a, b string, minRhyme int) int {
	switch {
	case len(a) == len(b):
		return max(countRhyme(a, b, minRhyme), countRhyme(b, a, minRhyme))
	case len(a) > len(b):
		return countRhyme(b, a, minRhyme)
	default:
		return countRhyme(a, b, minRhyme)
	}
}

func countRhyme(shorter, longer string, minRhyme int) int {
	n := len(shorter)
	if n == 0 || n < minRhyme {
		return 0
	}
	for l := n; l >= minRhyme && l > 0; l-- {
		if strings.Contains(longer, shorter[n-l:]) {
			return l
		}
	}
	for l := n - 1; l >= minRhyme && l > 0; l-- {
		if strings.Contains(longer, shorter[:l]) {
			return l
		}
	}
	return 0
}

// LenRate is the shorter rune count over the longer one.
func LenRate(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 && lb == 0 {
		return 0
	}
	return float64(min(la, lb)) / float64(max(la, lb))
}

// Distance combines the rhyme count with the similarity terms.
// A zero rhyme count always scores 0, even when the exponent is 0 and
// count^exp would give 1: a line that does not rhyme must never outrank one
// that does.
func Distance(count int, simLine, simAnchor, lenRate float64) int {
	if count <= 0 {
		return 0
	}
	exp := (1 - simLine) * (simAnchor * 10) * (1 + lenRate)
	v := math.Pow(float64(count), exp)
	if math.IsNaN(v) {
		return 0
	}
	if v >= math.MaxInt {
		return math.MaxInt
	}
	return int(v)
}

// Meter scores lines against a target with a fixed anchor word.
type Meter struct {
	tok       morph.Tokenizer
	scorer    similarity.Scorer
	romanizer *Romanizer
	anchor    string
	minRhyme  int
}

// NewMeter builds a Meter. minRhyme <= 0 selects DefaultMinRhyme.
func NewMeter(tok morph.Tokenizer, scorer similarity.Scorer, anchor string, minRhyme int) *Meter {
	if minRhyme <= 0 {
		minRhyme = DefaultMinRhyme
	}
	return &Meter{
		tok:       tok,
		scorer:    scorer,
		romanizer: NewRomanizer(),
		anchor:    anchor,
		minRhyme:  minRhyme,
	}
}

// Anchor returns the anchor word.
func (m *Meter) Anchor() string { return m.anchor }

// Vowels returns the vowel skeleton of s.
func (m *Meter) Vowels(s string) string {
	return Vowelize(m.romanizer.Romanize(morph.Readings(m.tok.Tokenize(s))))
}

// CountRhyme counts the rhyme between two texts.
func (m *Meter) CountRhyme(s1, s2 string) int {
	v1, v2 := m.Vowels(s1), m.Vowels(s2)
	log.Debug("vowels", "s1", v1, "s2", v2)
	return CountRhyme(v1, v2, m.minRhyme)
}

// Similarity returns the line similarity of s1 and s2 and the best anchor
// similarity over the nouns of both. With no nouns the anchor term is 0.
func (m *Meter) Similarity(ctx context.Context, s1, s2 string) (line, anchor float64, err error) {
	refs := []string{s1}
	hyps := []string{s2}
	nouns := append(morph.Nouns(m.tok.Tokenize(s1)), morph.Nouns(m.tok.Tokenize(s2))...)
	for _, n := range nouns {
		refs = append(refs, m.anchor)
		hyps = append(hyps, n)
	}
	scores, err := m.scorer.Score(ctx, refs, hyps)
	if err != nil {
		return 0, 0, fmt.Errorf("score similarity: %w", err)
	}
	if len(scores) != len(refs) {
		return 0, 0, fmt.Errorf("score similarity: got %d scores for %d pairs", len(scores), len(refs))
	}
	line = scores[0].F1
	for i, s := range scores[1:] {
		if i == 0 || s.F1 > anchor {
			anchor = s.F1
		}
	}
	return line, anchor, nil
}

// Throw returns the distance of s1 against s2.
func (m *Meter) Throw(ctx context.Context, s1, s2 string) (int, error) {
	count := m.CountRhyme(s1, s2)
	simLine, simAnchor, err := m.Similarity(ctx, s1, s2)
	if err != nil {
		return 0, err
	}
	rate := LenRate(s1, s2)
	dist := Distance(count, simLine, simAnchor, rate)
	log.Debug("throw", "line", s1, "count", count, "simLine", simLine, "simAnchor", simAnchor, "lenRate", rate, "dist", dist)
	return dist, nil
}

// MostRhyming returns up to topN distinct candidates ordered by rhyme count
// against killer, highest first. Ties keep their input order.
func (m *Meter) MostRhyming(killer string, candidates []string, topN int) []string {
	type scored struct {
		word  string
		count int
	}
	seen := utils.NewSeenFilter()
	var ranked []scored
	for _, c := range candidates {
		if !seen.ShouldInclude(c) {
			continue
		}
		ranked = append(ranked, scored{c, m.CountRhyme(killer, c)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].count > ranked[j].count
	})
	if topN >= 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.word
	}
	return out
}
