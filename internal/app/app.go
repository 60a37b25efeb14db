// Package app wires a configured Generator from its collaborators.
package app

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/masaki925/marcov-rap/internal/utils"
	"github.com/masaki925/marcov-rap/pkg/config"
	"github.com/masaki925/marcov-rap/pkg/embedding"
	"github.com/masaki925/marcov-rap/pkg/generate"
	"github.com/masaki925/marcov-rap/pkg/morph"
	"github.com/masaki925/marcov-rap/pkg/rhyme"
	"github.com/masaki925/marcov-rap/pkg/similarity"
	"github.com/masaki925/marcov-rap/pkg/store"
)

// Tokenizer loads the kagome tokenizer.
func Tokenizer() (morph.Tokenizer, error) {
	return morph.NewKagome()
}

// Model loads the embedding model at path. An empty path yields an empty
// vocabulary so that generation falls back to literal and weighted choices.
func Model(path string) (embedding.Model, error) {
	if path == "" {
		log.Warn("No embedding model configured, neighbour matching disabled")
		return (*embedding.Vectors)(nil), nil
	}
	return embedding.Load(path)
}

// ResolvePaths rewrites relative data paths in cfg to the first location
// where the file exists: working dir, binary dir, or config dir.
func ResolvePaths(cfg *config.Config) {
	configDir, err := config.GetConfigDir()
	if err != nil {
		configDir = ""
	}
	pr := utils.NewPathResolver(configDir)
	if cfg.Store.Driver != store.DriverPostgres {
		cfg.Store.Path = pr.Resolve(cfg.Store.Path)
	}
	cfg.Embedding.Path = pr.Resolve(cfg.Embedding.Path)
}

// NewGenerator builds the generator described by cfg.
func NewGenerator(cfg *config.Config, tok morph.Tokenizer) (*generate.Generator, error) {
	ResolvePaths(cfg)
	model, err := Model(cfg.Embedding.Path)
	if err != nil {
		return nil, err
	}
	scorer, err := similarity.New(cfg.Similarity.Backend, cfg.Similarity.APIKey, cfg.Similarity.Model)
	if err != nil {
		return nil, fmt.Errorf("similarity scorer: %w", err)
	}
	meter := rhyme.NewMeter(tok, scorer, cfg.Rhyme.Anchor, cfg.Rhyme.MinRhyme)
	gen := generate.New(
		generate.StoreOpener(cfg.Store),
		tok,
		model,
		meter,
		generate.NewRand(int64(cfg.Generator.Seed)),
		generate.Options{
			MaxSteps:     cfg.Generator.MaxSteps,
			Neighbors:    cfg.Generator.Neighbors,
			KillerPhrase: cfg.Rhyme.KillerPhrase,
			TopN:         cfg.Rhyme.TopN,
		},
	)
	log.Debug("Generator ready",
		"store", cfg.Store.Driver,
		"similarity", cfg.Similarity.Backend,
		"maxSteps", cfg.Generator.MaxSteps)
	return gen, nil
}
