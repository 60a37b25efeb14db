/*
Package chain turns raw Japanese text into second-order Markov triplets.

A triplet is three consecutive morphemes (prefix1, prefix2, suffix). Every
sentence of three or more morphemes also yields two synthetic boundary
triplets, one opening with Begin and one closing with End, so that walkers
know where sentences may start and stop.

	freqs := chain.Extract(corpus, tokenizer)
	rows := freqs.Rows()
*/
package chain

import (
	"sort"
	"strings"

	"github.com/masaki925/marcov-rap/pkg/morph"
)

// Sentence boundary sentinels. They never collide with real morphemes.
const (
	Begin = "__BEGIN_SENTENCE__"
	End   = "__END_SENTENCE__"
)

// Triplet is the key of a chain entry.
type Triplet struct {
	Prefix1 string
	Prefix2 string
	Suffix  string
}

// Row is a stored triplet with its accumulated frequency.
type Row struct {
	Triplet
	Freq int
}

// Freqs maps each triplet to the number of times it was observed.
type Freqs map[Triplet]int

// Add merges other into f.
func (f Freqs) Add(other Freqs) {
	for k, v := range other {
		f[k] += v
	}
}

// Rows returns f as rows ordered by key, which keeps inserts deterministic.
func (f Freqs) Rows() []Row {
	rows := make([]Row, 0, len(f))
	for k, v := range f {
		rows = append(rows, Row{Triplet: k, Freq: v})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].Triplet, rows[j].Triplet
		if a.Prefix1 != b.Prefix1 {
			return a.Prefix1 < b.Prefix1
		}
		if a.Prefix2 != b.Prefix2 {
			return a.Prefix2 < b.Prefix2
		}
		return a.Suffix < b.Suffix
	})
	return rows
}

// Total returns the sum of all frequencies.
func (f Freqs) Total() int {
	n := 0
	for _, v := range f {
		n += v
	}
	return n
}

// sentenceEnds are kept attached to the sentence they close.
const sentenceEnds = "。．."

// SplitSentences splits text after every sentence terminator and at line
// breaks. Sentences are trimmed and empty ones dropped.
func SplitSentences(text string) []string {
	var (
		sentences []string
		b         strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			sentences = append(sentences, s)
		}
		b.Reset()
	}
	for _, r := range text {
		switch {
		case r == '\n' || r == '\r':
			flush()
		case strings.ContainsRune(sentenceEnds, r):
			b.WriteRune(r)
			flush()
		default:
			b.WriteRune(r)
		}
	}
	flush()
	return sentences
}

// Extract builds the triplet frequencies of every sentence in text.
func Extract(text string, tok morph.Tokenizer) Freqs {
	freqs := make(Freqs)
	for _, sentence := range SplitSentences(text) {
		freqs.Add(SentenceTriplets(surfaces(tok.Tokenize(sentence))))
	}
	return freqs
}

// SentenceTriplets returns the triplets of one tokenized sentence.
// Fewer than three morphemes yield nothing. Boundary triplets count once
// per sentence even when the same window repeats inside it.
func SentenceTriplets(morphemes []string) Freqs {
	freqs := make(Freqs)
	if len(morphemes) < 3 {
		return freqs
	}
	for i := 0; i+2 < len(morphemes); i++ {
		freqs[Triplet{morphemes[i], morphemes[i+1], morphemes[i+2]}]++
	}
	n := len(morphemes)
	freqs[Triplet{Begin, morphemes[0], morphemes[1]}] = 1
	freqs[Triplet{morphemes[n-2], morphemes[n-1], End}] = 1
	return freqs
}

func surfaces(tokens []morph.Token) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t.IsMorpheme() {
			out = append(out, t.Surface)
		}
	}
	return out
}
