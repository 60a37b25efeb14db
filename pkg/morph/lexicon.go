package morph

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Lexicon is a greedy longest-match tokenizer over a fixed word list.
// Runes not covered by any entry become single-rune 記号 tokens.
// It is meant for fixtures and small closed vocabularies.
type Lexicon struct {
	entries []Token
}

// NewLexicon builds a Lexicon from entries.
func NewLexicon(entries ...Token) *Lexicon {
	sorted := append([]Token(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Surface) > len(sorted[j].Surface)
	})
	return &Lexicon{entries: sorted}
}

// Word is shorthand for a token with IPA-shaped features.
func Word(surface, pos, reading string) Token {
	return Token{
		Surface:  surface,
		Features: []string{pos, "*", "*", "*", "*", "*", surface, reading, reading},
	}
}

// Tokenize implements Tokenizer.
func (l *Lexicon) Tokenize(text string) []Token {
	var tokens []Token
	for len(text) > 0 {
		matched := false
		for _, e := range l.entries {
			if e.Surface != "" && strings.HasPrefix(text, e.Surface) {
				tokens = append(tokens, e)
				text = text[len(e.Surface):]
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		_, size := utf8.DecodeRuneInString(text)
		t := Token{Surface: text[:size], Features: []string{"記号", "*", "*", "*", "*", "*", "*"}}
		text = text[size:]
		if t.IsMorpheme() {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
