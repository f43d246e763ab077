package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("Expected listen addr :8080, got %s", cfg.Server.ListenAddr)
	}
	if cfg.Database.Path != "arcade.db" {
		t.Errorf("Expected database path arcade.db, got %s", cfg.Database.Path)
	}
	if cfg.Matches.StaleAfter != 5*time.Minute {
		t.Errorf("Expected stale_after 5m, got %v", cfg.Matches.StaleAfter)
	}
	if cfg.Matches.RemoveAfter != 10*time.Second {
		t.Errorf("Expected remove_after 10s, got %v", cfg.Matches.RemoveAfter)
	}
}

func TestLoadAppliesDefaultsToUnsetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  listen_addr: "127.0.0.1:9000"
matches:
  stale_after: 1m
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.ListenAddr != "127.0.0.1:9000" {
		t.Errorf("Expected listen addr 127.0.0.1:9000, got %s", cfg.Server.ListenAddr)
	}
	if cfg.Matches.StaleAfter != time.Minute {
		t.Errorf("Expected stale_after 1m, got %v", cfg.Matches.StaleAfter)
	}
	// Unset fields fall back to defaults
	if cfg.Database.Path != "arcade.db" {
		t.Errorf("Expected default database path, got %s", cfg.Database.Path)
	}
	if cfg.Matches.RemoveAfter != 10*time.Second {
		t.Errorf("Expected default remove_after, got %v", cfg.Matches.RemoveAfter)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [not a mapping"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Expected error for invalid YAML")
	}
}
