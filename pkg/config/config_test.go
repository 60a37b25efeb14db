package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg, err := InitConfig(path)
	if err != nil {
		t.Fatalf("InitConfig: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
	if loaded.Rhyme.KillerPhrase != "逆転サヨナラホームラン" || loaded.Generator.MaxSteps != 512 {
		t.Errorf("unexpected defaults: %+v", loaded)
	}
}

func TestLoadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[generator]
max_steps = "many"
seed = 42

[rhyme]
anchor = "ラップ"

[store]
driver = "postgres"
dsn = "postgres://localhost/rap"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Generator.MaxSteps != 512 {
		t.Errorf("MaxSteps = %d, want default 512", cfg.Generator.MaxSteps)
	}
	if cfg.Generator.Seed != 42 {
		t.Errorf("Seed = %d, want 42", cfg.Generator.Seed)
	}
	if cfg.Rhyme.Anchor != "ラップ" || cfg.Rhyme.KillerPhrase == "" {
		t.Errorf("Rhyme = %+v", cfg.Rhyme)
	}
	if cfg.Store.Driver != "postgres" || cfg.Store.DSN != "postgres://localhost/rap" {
		t.Errorf("Store = %+v", cfg.Store)
	}
}

func TestLoadConfigWithPriorityEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[similarity]\nbackend = \"openai\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvOpenAIKey, "sk-test")
	t.Setenv(EnvDiscordToken, "bot-token")
	cfg, used, err := LoadConfigWithPriority(path)
	if err != nil {
		t.Fatalf("LoadConfigWithPriority: %v", err)
	}
	if used != path {
		t.Errorf("used path = %q, want %q", used, path)
	}
	if cfg.Similarity.Backend != "openai" || cfg.Similarity.APIKey != "sk-test" {
		t.Errorf("Similarity = %+v", cfg.Similarity)
	}
	if cfg.Discord.Token != "bot-token" {
		t.Errorf("Discord.Token = %q", cfg.Discord.Token)
	}
}

func TestWritableDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if !writableDir(dir) {
		t.Fatalf("writableDir(%s) = false", dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("write test left %d files behind", len(entries))
	}
}

func TestGetActiveConfigPath(t *testing.T) {
	if got := GetActiveConfigPath(""); got != "" {
		t.Errorf("GetActiveConfigPath(\"\") = %q, want empty", got)
	}
	got := GetActiveConfigPath("config.toml")
	if !filepath.IsAbs(got) || filepath.Base(got) != "config.toml" {
		t.Errorf("GetActiveConfigPath(config.toml) = %q", got)
	}
}

func TestSaveConfigMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "config.toml")
	if err := SaveConfig(DefaultConfig(), path); err == nil {
		t.Error("SaveConfig into a missing directory should fail")
	}
}
