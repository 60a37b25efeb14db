package morph

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/ikawaha/kagome-dict/dict"
	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Kagome is a Tokenizer backed by kagome.
// Build it once; it is safe for concurrent use.
type Kagome struct {
	t *tokenizer.Tokenizer
}

// NewKagome loads the IPA dictionary.
func NewKagome() (*Kagome, error) {
	return NewKagomeWithDict(ipa.Dict())
}

// NewKagomeWithDict builds a tokenizer over an already loaded dictionary.
func NewKagomeWithDict(d *dict.Dict) (*Kagome, error) {
	t, err := tokenizer.New(d, tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("init kagome tokenizer: %w", err)
	}
	log.Debug("kagome tokenizer ready")
	return &Kagome{t: t}, nil
}

// Tokenize returns the morphemes of text, skipping dummy and blank nodes.
func (k *Kagome) Tokenize(text string) []Token {
	raw := k.t.Tokenize(text)
	tokens := make([]Token, 0, len(raw))
	for _, kt := range raw {
		if kt.Class == tokenizer.DUMMY {
			continue
		}
		t := Token{Surface: kt.Surface, Features: kt.Features()}
		if !t.IsMorpheme() {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}
