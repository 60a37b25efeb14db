package app

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/masaki925/marcov-rap/pkg/chain"
	"github.com/masaki925/marcov-rap/pkg/config"
	"github.com/masaki925/marcov-rap/pkg/generate"
	"github.com/masaki925/marcov-rap/pkg/morph"
	"github.com/masaki925/marcov-rap/pkg/store"
)

func TestNewGenerator(t *testing.T) {
	lex := morph.NewLexicon(
		morph.Word("我輩", morph.Noun, "ワガハイ"),
		morph.Word("猫", morph.Noun, "ネコ"),
		morph.Word("は", "助詞", "ハ"),
	)
	cfg := config.DefaultConfig()
	cfg.Store.Path = filepath.Join(t.TempDir(), "chain.db")
	cfg.Generator.Seed = 1
	if err := store.Ingest(context.Background(), cfg.Store, chain.Extract("我輩は猫。", lex)); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	gen, err := NewGenerator(cfg, lex)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	got, err := gen.Generate(context.Background(), generate.ModeRhyme, "猫")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasSuffix(got, "\n"+cfg.Rhyme.KillerPhrase) {
		t.Errorf("Generate() = %q", got)
	}
}

func TestNewGeneratorBadBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Similarity.Backend = "bert"
	if _, err := NewGenerator(cfg, morph.NewLexicon()); err == nil {
		t.Error("expected error for unknown similarity backend")
	}
}

func TestResolvePathsKeepsAbsolute(t *testing.T) {
	cfg := config.DefaultConfig()
	abs := filepath.Join(t.TempDir(), "chain.db")
	cfg.Store.Path = abs
	cfg.Embedding.Path = ""
	ResolvePaths(cfg)
	if cfg.Store.Path != abs {
		t.Errorf("Store.Path = %q, want %q", cfg.Store.Path, abs)
	}
	if cfg.Embedding.Path != "" {
		t.Errorf("Embedding.Path = %q, want empty", cfg.Embedding.Path)
	}
}
