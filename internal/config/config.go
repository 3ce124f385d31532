// Package config holds the project constants and the optional
// .varlens.yaml user configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level .varlens.yaml configuration.
type Config struct {
	// MaxValueLen caps rendered value representations in trace events.
	// Defaults to DefaultMaxValueLen.
	MaxValueLen int `yaml:"maxValueLen,omitempty"`

	// HistoryPath overrides where the run-history database lives.
	HistoryPath string `yaml:"historyPath,omitempty"`

	// Color controls styled output: "auto" (default), "always", "never".
	Color string `yaml:"color,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		MaxValueLen: DefaultMaxValueLen,
		Color:       "auto",
	}
}

// Load reads the configuration from path. A missing file yields the
// defaults without error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.MaxValueLen <= 0 {
		cfg.MaxValueLen = DefaultMaxValueLen
	}
	if cfg.Color == "" {
		cfg.Color = "auto"
	}
	return cfg, nil
}

// LoadDefault loads .varlens.yaml from the working directory.
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigFile)
}

// ResolveHistoryPath returns the configured history database location,
// falling back to the user state directory.
func (c *Config) ResolveHistoryPath() (string, error) {
	if c.HistoryPath != "" {
		return c.HistoryPath, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolving history path: %w", err)
	}
	dir := filepath.Join(base, "varlens")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating history dir: %w", err)
	}
	return filepath.Join(dir, DefaultHistoryFile), nil
}
