// Package config loads the scanner configuration from a TOML file,
// falling back to defaults when no file exists.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the top-level application configuration.
type Config struct {
	Provider ProviderConfig `toml:"provider"`
	Scan     ScanConfig     `toml:"scan"`
}

// ProviderConfig holds settings for LLM provider selection.
type ProviderConfig struct {
	Default  string                   `toml:"default"`
	Model    string                   `toml:"model"`
	Cerebras CerebrasProviderConfig   `toml:"cerebras"`
	OpenAI   []OpenAICompatibleConfig `toml:"openai_compatible"`
}

// CerebrasProviderConfig holds Cerebras-specific provider settings.
type CerebrasProviderConfig struct {
	BaseURL      string `toml:"base_url"`
	APIKeySource string `toml:"api_key_source"`
	APIKey       string `toml:"api_key"`
}

// OpenAICompatibleConfig holds settings for an OpenAI-compatible provider.
type OpenAICompatibleConfig struct {
	Name         string            `toml:"name"`
	BaseURL      string            `toml:"base_url"`
	APIKeySource string            `toml:"api_key_source"`
	APIKey       string            `toml:"api_key"`
	ExtraHeaders map[string]string `toml:"extra_headers"`
}

// ScanConfig holds settings for batching and scan execution.
type ScanConfig struct {
	MaxTokens            int    `toml:"max_tokens"`
	ReservedOverhead     int    `toml:"reserved_overhead"`
	MarkerOverhead       int    `toml:"marker_overhead"`
	SubcategoryBatchSize int    `toml:"subcategory_batch_size"`
	Concurrency          int    `toml:"concurrency"`
	RateLimitPerMinute   int    `toml:"rate_limit_per_minute"`
	PromptsFile          string `toml:"prompts_file"`
	HistoryDB            string `toml:"history_db"`
}

// DefaultConfig returns a Config populated with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Default: "cerebras",
			Model:   "llama-4-scout-17b-16e-instruct",
			Cerebras: CerebrasProviderConfig{
				APIKeySource: "env",
			},
		},
		Scan: ScanConfig{
			MaxTokens:            6000,
			ReservedOverhead:     2000,
			MarkerOverhead:       100,
			SubcategoryBatchSize: 3,
			Concurrency:          4,
			RateLimitPerMinute:   30,
		},
	}
}

// DefaultPath returns the default config file location
// (~/.config/codescan/config.toml).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "codescan", "config.toml"), nil
}

// Load reads the configuration from path. A missing file is not an error:
// the defaults are returned unchanged. A file that exists but cannot be
// parsed is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
