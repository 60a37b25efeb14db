/*
Package config manages TOML config for marcov-rap services.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/masaki925/marcov-rap/internal/utils"
	"github.com/masaki925/marcov-rap/pkg/store"
)

// Env vars read when the matching secret is not set in the file.
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvDiscordToken = "DISCORD_TOKEN"
)

// Config holds the entire config structure
type Config struct {
	Store      store.Config     `toml:"store"`
	Generator  GeneratorConfig  `toml:"generator"`
	Rhyme      RhymeConfig      `toml:"rhyme"`
	Embedding  EmbeddingConfig  `toml:"embedding"`
	Similarity SimilarityConfig `toml:"similarity"`
	Server     ServerConfig     `toml:"server"`
	Discord    DiscordConfig    `toml:"discord"`
}

// GeneratorConfig controls the chain walkers.
type GeneratorConfig struct {
	Mode      string `toml:"mode"`
	MaxSteps  int    `toml:"max_steps"`
	Seed      int    `toml:"seed"`
	Neighbors int    `toml:"neighbors"`
}

// RhymeConfig holds the rhyme scoring options.
type RhymeConfig struct {
	KillerPhrase string `toml:"killer_phrase"`
	Anchor       string `toml:"anchor"`
	TopN         int    `toml:"top_n"`
	MinRhyme     int    `toml:"min_rhyme"`
}

// EmbeddingConfig points at the word vector model.
type EmbeddingConfig struct {
	Path string `toml:"path"`
}

// SimilarityConfig selects the similarity backend.
type SimilarityConfig struct {
	Backend string `toml:"backend"`
	Model   string `toml:"model"`
	APIKey  string `toml:"api_key"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	Addr     string `toml:"addr"`
	MaxVerse int    `toml:"max_verse"`
}

// DiscordConfig holds bot options.
type DiscordConfig struct {
	Token string `toml:"token"`
	Mode  string `toml:"mode"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/marcov-rap, created when missing, if it is writable
// 2. the executable's directory
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
	} else if dir := filepath.Join(homeDir, ".config", "marcov-rap"); writableDir(dir) {
		return dir, nil
	}
	execDir, err := utils.ExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// writableDir creates dir when missing and reports whether files can be
// created in it.
func writableDir(dir string) bool {
	if err := utils.EnsureDir(dir); err != nil {
		log.Warnf("Cannot create directory %s: %v", dir, err)
		return false
	}
	f, err := os.CreateTemp(dir, ".write_test")
	if err != nil {
		log.Warnf("Cannot write to directory %s: %v", dir, err)
		return false
	}
	f.Close()
	os.Remove(f.Name())
	return true
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/marcov-rap/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config.withEnv(), customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig().withEnv(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig().withEnv(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config.withEnv(), defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Store: store.Config{
			Driver: store.DriverSQLite,
			Path:   "chain.db",
		},
		Generator: GeneratorConfig{
			Mode:      "rhyme",
			MaxSteps:  512,
			Seed:      0,
			Neighbors: 20,
		},
		Rhyme: RhymeConfig{
			KillerPhrase: "逆転サヨナラホームラン",
			Anchor:       "野球",
			TopN:         3,
			MinRhyme:     2,
		},
		Similarity: SimilarityConfig{
			Backend: "lexical",
			Model:   "text-embedding-3-small",
		},
		Server: ServerConfig{
			Addr:     ":5000",
			MaxVerse: 1000,
		},
		Discord: DiscordConfig{
			Mode: "rhyme",
		},
	}
}

// withEnv fills secrets from the environment.
func (c *Config) withEnv() *Config {
	if c.Similarity.APIKey == "" {
		c.Similarity.APIKey = os.Getenv(EnvOpenAIKey)
	}
	if c.Discord.Token == "" {
		c.Discord.Token = os.Getenv(EnvDiscordToken)
	}
	return c
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := decodeFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every key that still decodes and defaults the rest
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	raw, err := decodeLoose(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if s, ok := section(raw, "store"); ok {
		setString(s, "driver", &config.Store.Driver)
		setString(s, "path", &config.Store.Path)
		setString(s, "dsn", &config.Store.DSN)
	}
	if s, ok := section(raw, "generator"); ok {
		setString(s, "mode", &config.Generator.Mode)
		setInt(s, "max_steps", &config.Generator.MaxSteps)
		setInt(s, "seed", &config.Generator.Seed)
		setInt(s, "neighbors", &config.Generator.Neighbors)
	}
	if s, ok := section(raw, "rhyme"); ok {
		setString(s, "killer_phrase", &config.Rhyme.KillerPhrase)
		setString(s, "anchor", &config.Rhyme.Anchor)
		setInt(s, "top_n", &config.Rhyme.TopN)
		setInt(s, "min_rhyme", &config.Rhyme.MinRhyme)
	}
	if s, ok := section(raw, "embedding"); ok {
		setString(s, "path", &config.Embedding.Path)
	}
	if s, ok := section(raw, "similarity"); ok {
		setString(s, "backend", &config.Similarity.Backend)
		setString(s, "model", &config.Similarity.Model)
		setString(s, "api_key", &config.Similarity.APIKey)
	}
	if s, ok := section(raw, "server"); ok {
		setString(s, "addr", &config.Server.Addr)
		setInt(s, "max_verse", &config.Server.MaxVerse)
	}
	if s, ok := section(raw, "discord"); ok {
		setString(s, "token", &config.Discord.Token)
		setString(s, "mode", &config.Discord.Mode)
	}
	return config, nil
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return saveTOML(config, configPath)
}

// GetActiveConfigPath returns the absolute path of the loaded config file, or
// "" when the built-in defaults are in use.
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return ""
	}
	if abs, err := filepath.Abs(configPath); err == nil {
		return abs
	}
	return configPath
}
