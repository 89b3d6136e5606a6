package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.SessionIdle.Std() != 2*time.Hour {
		t.Errorf("expected 2h session idle, got %v", cfg.Server.SessionIdle.Std())
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[server]
port = 9090
session_idle = "15m"
allowed_origins = ["https://sladami-roberta.pl"]

[youtube]
concurrency = 2
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.SessionIdle.Std() != 15*time.Minute {
		t.Errorf("expected 15m, got %v", cfg.Server.SessionIdle.Std())
	}
	if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "https://sladami-roberta.pl" {
		t.Errorf("unexpected origins: %v", cfg.Server.AllowedOrigins)
	}
	if cfg.YouTube.Concurrency != 2 {
		t.Errorf("expected concurrency 2, got %d", cfg.YouTube.Concurrency)
	}
	// Untouched sections keep their defaults.
	if cfg.Data.Dir != "data" {
		t.Errorf("expected default data dir, got %q", cfg.Data.Dir)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server]\nsession_idle = \"soon\"\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}
