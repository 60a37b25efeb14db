/*
Package morph wraps a Japanese morphological analyzer behind a small token model.

The rest of the module only sees Token values: the surface form, the IPA
feature vector and a few accessors for the fields generation cares about
(major part of speech, base form and katakana reading).

	tok, err := morph.NewKagome()
	for _, t := range tok.Tokenize("今日は、楽しい運動会です。") {
		fmt.Println(t.Surface, t.POS())
	}

Feature layout follows the IPA dictionary:

	[pos, pos1, pos2, pos3, inflection type, inflection form, base form, reading, pronunciation]

Unknown words only carry the first seven fields.
*/
package morph

import (
	"errors"
	"strings"
)

// Major part-of-speech labels used by the generator.
const (
	Noun      = "名詞"
	Adjective = "形容詞"
)

const (
	baseFormField = 6
	readingField  = 7
	emptyField    = "*"
)

// ErrMalformedFeatures is returned when a token's feature vector is too short
// to carry the requested field.
var ErrMalformedFeatures = errors.New("malformed token features")

// Tokenizer splits text into morphemes.
// Implementations must not return BOS/EOS dummy nodes.
type Tokenizer interface {
	Tokenize(text string) []Token
}

// Token is one morpheme.
type Token struct {
	Surface  string
	Features []string
}

// POS returns the major part of speech, or "" when no features are present.
func (t Token) POS() string {
	if len(t.Features) == 0 {
		return ""
	}
	return t.Features[0]
}

// BaseForm returns the dictionary form (7th feature).
// When the dictionary stores "*" the surface is used instead.
func (t Token) BaseForm() (string, error) {
	if len(t.Features) <= baseFormField {
		return "", ErrMalformedFeatures
	}
	base := t.Features[baseFormField]
	if base == emptyField || base == "" {
		return t.Surface, nil
	}
	return base, nil
}

// Reading returns the katakana reading, falling back to the surface
// (hiragana folded to katakana) for unknown words.
func (t Token) Reading() string {
	if len(t.Features) > readingField && t.Features[readingField] != emptyField {
		return t.Features[readingField]
	}
	return ToKatakana(t.Surface)
}

// IsMorpheme reports whether the token carries text.
func (t Token) IsMorpheme() bool {
	return strings.TrimSpace(t.Surface) != ""
}

// Nouns returns the surfaces of every noun in tokens, in order.
func Nouns(tokens []Token) []string {
	var nouns []string
	for _, t := range tokens {
		if t.POS() == Noun {
			nouns = append(nouns, t.Surface)
		}
	}
	return nouns
}

// Readings concatenates the readings of tokens.
func Readings(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Reading())
	}
	return b.String()
}

// ToKatakana shifts hiragana runes into the katakana block.
func ToKatakana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'ぁ' && r <= 'ゖ' {
			return r + ('ァ' - 'ぁ')
		}
		return r
	}, s)
}
