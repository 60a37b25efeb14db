package generate

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/masaki925/marcov-rap/pkg/chain"
	"github.com/masaki925/marcov-rap/pkg/embedding"
	"github.com/masaki925/marcov-rap/pkg/morph"
	"golang.org/x/text/unicode/norm"
)

// DefaultNeighbors is how many embedding neighbours a keyword expands to.
const DefaultNeighbors = 20

const (
	firstPerson  = "俺"
	secondPerson = "おまえ"
	dropped      = "ん"
)

// Keywords extracts the base forms of nouns and adjectives from tokens,
// swaps first and second person so the reply addresses the speaker, drops
// empty strings and "ん", and shuffles the result.
// Tokens with malformed features are skipped with a warning.
func Keywords(tokens []morph.Token, r Rand) []string {
	var words []string
	for _, t := range tokens {
		switch t.POS() {
		case morph.Noun, morph.Adjective:
		default:
			continue
		}
		base, err := t.BaseForm()
		if err != nil {
			log.Warn("Skipping token", "surface", t.Surface, "features", t.Features, "err", err)
			continue
		}
		base = swapPerson(base)
		if base == "" || base == dropped {
			continue
		}
		words = append(words, base)
	}
	r.Shuffle(len(words), func(i, j int) { words[i], words[j] = words[j], words[i] })
	return words
}

// PromptKeywords normalizes prompt to NFKC, tokenizes it and extracts keywords.
func PromptKeywords(prompt string, tok morph.Tokenizer, r Rand) []string {
	return Keywords(tok.Tokenize(norm.NFKC.String(prompt)), r)
}

func swapPerson(word string) string {
	switch {
	case strings.Contains(word, firstPerson):
		return strings.ReplaceAll(word, firstPerson, secondPerson)
	case strings.Contains(word, secondPerson):
		return strings.ReplaceAll(word, secondPerson, firstPerson)
	}
	return word
}

// Match is the outcome of a relevance selection.
// Keyword is empty when selection fell back to frequency weighting.
type Match struct {
	Row      chain.Row
	Keyword  string
	Neighbor string
}

// Relevance prefers candidates that mention a keyword, then candidates that
// mention an embedding neighbour of a keyword, and otherwise picks by
// frequency.
type Relevance struct {
	Model     embedding.Model
	Neighbors int
	Rand      Rand
}

// Select chooses one of candidates for keywords.
func (s *Relevance) Select(keywords []string, candidates []chain.Row) (Match, error) {
	if len(candidates) == 0 {
		return Match{}, ErrNoCandidates
	}
	for _, kw := range keywords {
		if c, ok := firstMention(kw, candidates); ok {
			log.Debug("keyword match", "keyword", kw, "row", c.Triplet)
			return Match{Row: c, Keyword: kw}, nil
		}
	}
	if s.Model != nil {
		n := s.Neighbors
		if n <= 0 {
			n = DefaultNeighbors
		}
		for _, kw := range keywords {
			neighbors, err := s.Model.MostSimilar([]string{kw}, n)
			if err != nil {
				log.Debug("no neighbours", "keyword", kw, "err", err)
				continue
			}
			for _, nb := range neighbors {
				if c, ok := firstMention(nb.Word, candidates); ok {
					log.Debug("neighbour match", "keyword", kw, "neighbor", nb.Word, "row", c.Triplet)
					return Match{Row: c, Keyword: kw, Neighbor: nb.Word}, nil
				}
			}
		}
	}
	log.Debug("no relevant candidate, selecting by frequency")
	row, err := Select(s.Rand, candidates)
	return Match{Row: row}, err
}

func firstMention(word string, candidates []chain.Row) (chain.Row, bool) {
	if word == "" {
		return chain.Row{}, false
	}
	for _, c := range candidates {
		if strings.Contains(c.Prefix2, word) || strings.Contains(c.Suffix, word) {
			return c, true
		}
	}
	return chain.Row{}, false
}
