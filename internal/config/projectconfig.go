package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProjectConfig represents a project-level .codescan.yaml file checked in
// alongside the code being scanned. It narrows or adjusts a scan without
// touching the user's global config.
type ProjectConfig struct {
	Model         string   `yaml:"model"`
	Categories    []string `yaml:"categories"`
	Subcategories []string `yaml:"subcategories"`
	Ignore        []string `yaml:"ignore"`
}

// LoadProjectConfig reads and parses .codescan.yaml from the given
// directory. Returns nil if the file does not exist or is empty.
func LoadProjectConfig(dir string) (*ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(dir, ".codescan.yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading .codescan.yaml: %w", err)
	}

	if strings.TrimSpace(string(data)) == "" {
		return nil, nil
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing .codescan.yaml: %w", err)
	}
	return &cfg, nil
}
