/*
Package generate walks a triplet chain to produce rap lines.

Three modes are offered:

	forward  a sentence from its beginning, opened by a triplet relevant to the prompt
	reverse  a sentence built backwards so it ends on a prompt keyword
	rhyme    several reverse candidates, the one landing best on the killer
	         phrase is returned followed by the killer phrase itself

A Generator owns the long-lived collaborators (tokenizer, embedding model,
rhyme meter, random source) and opens the chain store once per request.

	gen := generate.New(opener, tok, model, meter, generate.NewRand(0), opts)
	text, err := gen.Generate(ctx, generate.ModeRhyme, "俺の野球")
*/
package generate

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/masaki925/marcov-rap/internal/utils"
	"github.com/masaki925/marcov-rap/pkg/embedding"
	"github.com/masaki925/marcov-rap/pkg/morph"
	"github.com/masaki925/marcov-rap/pkg/rhyme"
	"github.com/masaki925/marcov-rap/pkg/store"
)

// Generation modes.
const (
	ModeForward = "forward"
	ModeReverse = "reverse"
	ModeRhyme   = "rhyme"
)

var (
	// ErrNoLines is returned when no rhyme candidate could be generated.
	ErrNoLines = errors.New("no candidate lines")
	// ErrUnknownMode is returned by Generate for a mode it does not offer.
	ErrUnknownMode = errors.New("unknown mode")
)

// DefaultTopN is how many rhyming neighbours seed extra candidates.
const DefaultTopN = 3

// Source is an open chain store.
type Source interface {
	store.Reader
	Close() error
}

// Opener opens the chain store for one request.
type Opener func() (Source, error)

// StoreOpener opens cfg with store.Open.
func StoreOpener(cfg store.Config) Opener {
	return func() (Source, error) {
		return store.Open(cfg)
	}
}

// Options tune generation.
type Options struct {
	MaxSteps     int
	Neighbors    int
	KillerPhrase string
	TopN         int
}

// Generator produces text from prompts. It is safe for concurrent use when
// its Rand is.
type Generator struct {
	open  Opener
	tok   morph.Tokenizer
	model embedding.Model
	meter *rhyme.Meter
	rand  Rand
	opts  Options
}

// New builds a Generator. A nil model behaves as an empty vocabulary.
func New(open Opener, tok morph.Tokenizer, model embedding.Model, meter *rhyme.Meter, rnd Rand, opts Options) *Generator {
	if model == nil {
		model = (*embedding.Vectors)(nil)
	}
	if rnd == nil {
		rnd = NewRand(0)
	}
	if opts.Neighbors <= 0 {
		opts.Neighbors = DefaultNeighbors
	}
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	return &Generator{open: open, tok: tok, model: model, meter: meter, rand: rnd, opts: opts}
}

// Keywords extracts the shuffled prompt keywords.
func (g *Generator) Keywords(prompt string) []string {
	return PromptKeywords(prompt, g.tok, g.rand)
}

// Generate dispatches on mode.
func (g *Generator) Generate(ctx context.Context, mode, prompt string) (string, error) {
	switch mode {
	case ModeForward, "":
		return g.Forward(ctx, prompt)
	case ModeReverse:
		return g.Reverse(ctx, prompt)
	case ModeRhyme:
		return g.Rhyme(ctx, prompt)
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownMode, mode)
	}
}

func (g *Generator) walker(src store.Reader) *Walker {
	return &Walker{
		Store:     src,
		Rand:      g.rand,
		MaxSteps:  g.opts.MaxSteps,
		Relevance: &Relevance{Model: g.model, Neighbors: g.opts.Neighbors, Rand: g.rand},
	}
}

// Forward generates one sentence opened by a triplet relevant to prompt.
func (g *Generator) Forward(ctx context.Context, prompt string) (string, error) {
	src, err := g.open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return g.walker(src).Forward(ctx, g.Keywords(prompt))
}

// Reverse generates one sentence ending on the first prompt keyword.
func (g *Generator) Reverse(ctx context.Context, prompt string) (string, error) {
	src, err := g.open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	keyword := ""
	if kws := g.Keywords(prompt); len(kws) > 0 {
		keyword = kws[0]
	}
	return g.walker(src).Reverse(ctx, keyword)
}

// Rhyme generates one reverse candidate per seed and returns the line that
// lands best on the killer phrase, followed by the killer phrase.
func (g *Generator) Rhyme(ctx context.Context, prompt string) (string, error) {
	if g.meter == nil {
		return "", errors.New("rhyme mode needs a meter")
	}
	src, err := g.open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	w := g.walker(src)
	var lines []string
	for _, seed := range g.Seeds(g.Keywords(prompt)) {
		line, err := w.Reverse(ctx, seed)
		if errors.Is(err, ErrNoSeed) {
			log.Debug("skipping seed", "seed", seed)
			continue
		}
		if err != nil {
			return "", err
		}
		log.Debug("candidate", "seed", seed, "line", line)
		lines = append(lines, line)
	}
	best, err := g.Best(ctx, lines)
	if err != nil {
		return "", err
	}
	return best + "\n" + g.opts.KillerPhrase, nil
}

// Seeds expands keywords into reverse-walk seeds: each keyword, followed by
// the neighbours of keyword and anchor that rhyme best with the killer
// phrase. With no keywords a single empty seed walks from any sentence end.
func (g *Generator) Seeds(keywords []string) []string {
	if len(keywords) == 0 {
		return []string{""}
	}
	seen := utils.NewSeenFilter()
	var seeds []string
	add := func(words ...string) {
		for _, w := range words {
			if seen.ShouldInclude(w) {
				seeds = append(seeds, w)
			}
		}
	}
	for _, kw := range keywords {
		add(kw)
		if g.meter == nil || !g.model.Contains(kw) {
			continue
		}
		neighbors, err := g.model.MostSimilar([]string{kw, g.meter.Anchor()}, g.opts.Neighbors)
		if err != nil {
			log.Debug("no neighbours", "keyword", kw, "anchor", g.meter.Anchor(), "err", err)
			continue
		}
		words := make([]string, len(neighbors))
		for i, n := range neighbors {
			words[i] = n.Word
		}
		add(g.meter.MostRhyming(g.opts.KillerPhrase, words, g.opts.TopN)...)
	}
	return seeds
}

// Best returns the line with the largest distance to the killer phrase.
// Ties go to the earlier line.
func (g *Generator) Best(ctx context.Context, lines []string) (string, error) {
	if len(lines) == 0 {
		return "", ErrNoLines
	}
	best, bestDist := "", -1
	for _, line := range lines {
		dist, err := g.meter.Throw(ctx, line, g.opts.KillerPhrase)
		if err != nil {
			return "", err
		}
		if dist > bestDist {
			best, bestDist = line, dist
		}
	}
	log.Debug("selected", "line", best, "distance", bestDist)
	return best, nil
}
