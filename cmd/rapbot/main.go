// Command rapbot answers Discord mentions with generated verses.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/masaki925/marcov-rap/internal/app"
	"github.com/masaki925/marcov-rap/internal/discord"
	"github.com/masaki925/marcov-rap/internal/logger"
	"github.com/masaki925/marcov-rap/pkg/config"
)

func main() {
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	configPath := flag.String("config", "", "Path to config.toml")
	mode := flag.String("mode", "", "Generation mode (default from [discord] config)")
	flag.Parse()

	logger.Setup(*debugMode)

	cfg, _, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *mode == "" {
		*mode = cfg.Discord.Mode
	}

	tok, err := app.Tokenizer()
	if err != nil {
		log.Fatalf("Failed to init tokenizer: %v", err)
	}
	gen, err := app.NewGenerator(cfg, tok)
	if err != nil {
		log.Fatalf("Failed to init generator: %v", err)
	}

	bot, err := discord.New(cfg.Discord.Token, gen, *mode)
	if err != nil {
		log.Fatalf("Failed to create bot: %v (set %s or [discord] token)", err, config.EnvDiscordToken)
	}
	if err := bot.Open(); err != nil {
		log.Fatalf("Failed to connect to Discord: %v", err)
	}
	defer bot.Close()
	log.Warn("rapbot is running, press Ctrl+C to exit")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
}
