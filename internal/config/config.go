// Package config loads the client-side configuration file. The storage
// backend choice lives here: prefer_embedded plus the remote credentials,
// where missing credentials force the embedded engine regardless of the flag.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ServerConfig points at the remote SQL service. URL and Token must both be
// present for the remote backend to be considered configured.
type ServerConfig struct {
	URL        string `yaml:"url"`
	Token      string `yaml:"token"`
	DatabaseID string `yaml:"database_id"`
}

type Config struct {
	// SnapshotPath is the durable file the embedded engine's image is
	// written to after every mutation.
	SnapshotPath   string       `yaml:"snapshot_path"`
	PreferEmbedded bool         `yaml:"prefer_embedded"`
	Server         ServerConfig `yaml:"server"`
}

func DefaultConfigPath() string {
	exe, err := os.Executable()
	if err != nil {
		return "config.yml"
	}
	return filepath.Join(filepath.Dir(exe), "config.yml")
}

func DefaultSnapshotPath() string {
	exe, err := os.Executable()
	if err != nil {
		return "dashboard.sqlite"
	}
	return filepath.Join(filepath.Dir(exe), "dashboard.sqlite")
}

func Exists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// Load reads the config file, filling defaults for anything missing. A
// missing file is not an error; the defaults describe a purely local setup.
func Load(path string) (*Config, error) {
	cfg := &Config{
		SnapshotPath:   DefaultSnapshotPath(),
		PreferEmbedded: true,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.SnapshotPath == "" {
		cfg.SnapshotPath = DefaultSnapshotPath()
	}
	if cfg.SnapshotPath[0] == '~' {
		home, _ := os.UserHomeDir()
		cfg.SnapshotPath = filepath.Join(home, cfg.SnapshotPath[1:])
	}

	return cfg, nil
}

func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// RemoteConfigured reports whether the remote backend can be selected at all.
func (c *Config) RemoteConfigured() bool {
	return c.Server.URL != "" && c.Server.Token != ""
}
