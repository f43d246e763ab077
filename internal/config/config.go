// Package config provides YAML-based server configuration with sensible
// defaults applied after unmarshal.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Matches  MatchConfig    `yaml:"matches"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	// Path to the database file.
	Path string `yaml:"path"`
}

// MatchConfig holds registry housekeeping settings shared by all games.
type MatchConfig struct {
	// StaleAfter is how long a match may wait for a second player
	// before it is abandoned and evicted.
	StaleAfter time.Duration `yaml:"stale_after"`

	// RemoveAfter is the grace delay between a match finishing and its
	// removal, so clients receive the final broadcast first.
	RemoveAfter time.Duration `yaml:"remove_after"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from a YAML file and fills in defaults for
// anything the file leaves unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8080"
	}
	if c.Database.Path == "" {
		c.Database.Path = "arcade.db"
	}
	if c.Matches.StaleAfter == 0 {
		c.Matches.StaleAfter = 5 * time.Minute
	}
	if c.Matches.RemoveAfter == 0 {
		c.Matches.RemoveAfter = 10 * time.Second
	}
}
