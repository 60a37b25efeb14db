// Copyright 2025 The marcov-rap Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main builds Markov chains from Japanese text and raps back at prompts.

# Usage

Build the chain store from a corpus (one or more sentences per line):

	marcov-rap -init corpus.txt

Generate a single reply:

	marcov-rap -prompt "俺の野球" -mode rhyme

Serve HTTP, the msgpack IPC protocol, or an interactive prompt:

	marcov-rap -http :5000
	marcov-rap -ipc
	marcov-rap -c

# Configuration

Settings live in a TOML file, created with defaults on first run:

	[store]
	driver = "sqlite"
	path = "chain.db"

	[generator]
	mode = "rhyme"
	max_steps = 512
	neighbors = 20

	[rhyme]
	killer_phrase = "逆転サヨナラホームラン"
	anchor = "野球"
	top_n = 3
	min_rhyme = 2

	[embedding]
	path = "rap_w2v.msgpack"

	[similarity]
	backend = "lexical"

OPENAI_API_KEY is used for the "openai" similarity backend when no api_key is
configured.

# Command Line Flags

	-init string
	    Corpus file to build the chain store from (wipes the store)
	-show
	    Print every stored triplet after -init
	-prompt string
	    Generate once for this prompt and exit
	-mode string
	    forward, reverse or rhyme (default from config)
	-http string
	    Serve HTTP on this address
	-ipc
	    Serve msgpack IPC on stdin/stdout
	-c  Run the interactive CLI
	-convert-vectors string
	    word2vec text file to convert into a msgpack snapshot (see -vectors-out)
	-config string
	    Path to config.toml
	-d  Enable debug logging
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/masaki925/marcov-rap/internal/app"
	"github.com/masaki925/marcov-rap/internal/cli"
	"github.com/masaki925/marcov-rap/internal/logger"
	"github.com/masaki925/marcov-rap/pkg/chain"
	"github.com/masaki925/marcov-rap/pkg/config"
	"github.com/masaki925/marcov-rap/pkg/embedding"
	"github.com/masaki925/marcov-rap/pkg/morph"
	"github.com/masaki925/marcov-rap/pkg/server"
	"github.com/masaki925/marcov-rap/pkg/store"
)

const (
	Version = "0.3.0"
	AppName = "marcov-rap"
	gh      = "https://github.com/masaki925/marcov-rap"
)

// main parses flags and hands off to the selected mode.
func main() {
	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	configPath := flag.String("config", "", "Path to config.toml")
	corpus := flag.String("init", "", "Corpus file to build the chain store from")
	show := flag.Bool("show", false, "Print stored triplets after -init")
	prompt := flag.String("prompt", "", "Generate once for this prompt")
	mode := flag.String("mode", "", "Generation mode: forward, reverse or rhyme")
	httpAddr := flag.String("http", "", "Serve HTTP on this address")
	ipcMode := flag.Bool("ipc", false, "Serve msgpack IPC on stdin/stdout")
	cliMode := flag.Bool("c", false, "Run the interactive CLI")
	vectorsIn := flag.String("convert-vectors", "", "word2vec text file to convert")
	vectorsOut := flag.String("vectors-out", "vectors.msgpack", "Snapshot path for -convert-vectors")
	storePath := flag.String("store", "", "Override the sqlite store path")
	flag.Parse()

	if *showVersion {
		printVersion()
		return
	}

	logger.Setup(*debugMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, usedPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if active := config.GetActiveConfigPath(usedPath); active != "" {
		log.Debugf("Using config file: (%s)", active)
	} else {
		log.Debug("Using built-in config defaults")
	}
	if *storePath != "" {
		cfg.Store.Path = *storePath
	}
	if *mode == "" {
		*mode = cfg.Generator.Mode
	}

	if *vectorsIn != "" {
		if err := convertVectors(*vectorsIn, *vectorsOut); err != nil {
			log.Fatalf("Convert vectors: %v", err)
		}
		return
	}

	tok, err := app.Tokenizer()
	if err != nil {
		log.Fatalf("Failed to init tokenizer: %v", err)
	}

	if *corpus != "" {
		if err := ingest(ctx, cfg.Store, *corpus, tok, *show); err != nil {
			log.Fatalf("Failed to build chain store: %v", err)
		}
		return
	}

	gen, err := app.NewGenerator(cfg, tok)
	if err != nil {
		log.Fatalf("Failed to init generator: %v", err)
	}
	opts := server.Options{Mode: *mode, MaxVerse: cfg.Server.MaxVerse}

	switch {
	case *prompt != "":
		text, err := gen.Generate(ctx, *mode, *prompt)
		if err != nil {
			log.Fatalf("Generation failed: %v", err)
		}
		fmt.Println(text)
	case *cliMode:
		log.SetReportTimestamp(false)
		if err := cli.NewInputHandler(gen, *mode, os.Stdin, os.Stdout).Start(ctx); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
	case *ipcMode:
		srv := server.NewIPC(gen, os.Stdin, os.Stdout, opts)
		if err := srv.Start(ctx); err != nil {
			log.Fatalf("IPC error: %v", err)
		}
	case *httpAddr != "" || cfg.Server.Addr != "":
		addr := *httpAddr
		if addr == "" {
			addr = cfg.Server.Addr
		}
		srv, err := server.NewHTTP(gen, opts)
		if err != nil {
			log.Fatalf("Failed to init HTTP server: %v", err)
		}
		showStartupInfo(addr, cfg.Store)
		if err := srv.ListenAndServe(ctx, addr); err != nil {
			log.Fatalf("HTTP server: %v", err)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// ingest rebuilds the chain store from a corpus file.
func ingest(ctx context.Context, cfg store.Config, path string, tok morph.Tokenizer, show bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	freqs := chain.Extract(string(data), tok)
	log.Debug("Extracted triplets", "unique", len(freqs), "total", freqs.Total())
	if err := store.Ingest(ctx, cfg, freqs); err != nil {
		return err
	}
	log.Infof("Stored %d triplets", len(freqs))
	if !show {
		return nil
	}

	s, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	rows, err := s.Dump(ctx)
	if err != nil {
		return err
	}
	for _, r := range rows {
		fmt.Printf("%s|%s|%s\t%d\n", r.Prefix1, r.Prefix2, r.Suffix, r.Freq)
	}
	return nil
}

// convertVectors turns a word2vec text model into a msgpack snapshot.
func convertVectors(in, out string) error {
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()
	v, err := embedding.ReadText(f)
	if err != nil {
		return err
	}
	if err := v.Save(out); err != nil {
		return err
	}
	log.Infof("Wrote %d vectors to %s", v.Len(), out)
	return nil
}

func printVersion() {
	banner := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ marcov-rap ] Markov chain rap generator")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the server.
func showStartupInfo(addr string, st store.Config) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("store: %s ( %s )", st.Driver, st.Path)
	log.Infof("listening: %s", addr)
	log.Info("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
