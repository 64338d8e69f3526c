// Package config reads the CLI's YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk CLI configuration. API keys never appear here;
// providers reference keystore entries by name instead.
type Config struct {
	DefaultProvider string                    `yaml:"default_provider"`
	DefaultModel    string                    `yaml:"default_model"`
	Providers       map[string]ProviderConfig `yaml:"providers"`
}

// ProviderConfig carries the per-provider settings.
type ProviderConfig struct {
	APIKeyRef string `yaml:"api_key_ref"`
	BaseURL   string `yaml:"base_url,omitempty"`
}

// DefaultConfigPath returns ~/.scribe/config.yaml, or a bare config.yaml
// in the working directory when the home directory cannot be resolved.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "config.yaml"
	}
	return filepath.Join(home, ".scribe", "config.yaml")
}

// LoadConfig reads and parses the configuration at path. A missing file is
// not an error; it yields an empty configuration so first runs work before
// `scribe init` has been used.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{Providers: map[string]ProviderConfig{}}, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Providers == nil {
		cfg.Providers = map[string]ProviderConfig{}
	}
	return &cfg, nil
}

// GetProvider looks up the settings for a provider ID, or nil when the
// provider has no entry.
func (c *Config) GetProvider(id string) *ProviderConfig {
	pc, ok := c.Providers[id]
	if !ok {
		return nil
	}
	return &pc
}
