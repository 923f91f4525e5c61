package provider

import (
	"fmt"
	"strings"

	"github.com/drxyu/cerebras-code-scanner/internal/config"
)

const cerebrasBaseURL = "https://api.cerebras.ai/v1"

// NewProvider creates a Completer based on the given configuration.
// If the default provider is "cerebras", it creates a Cerebras provider.
// Otherwise, it searches the OpenAI-compatible configurations for a
// matching name.
func NewProvider(cfg *config.Config) (Completer, error) {
	if cfg.Provider.Default == "cerebras" {
		return newCerebrasProvider(cfg)
	}

	return newOpenAIProvider(cfg)
}

func newCerebrasProvider(cfg *config.Config) (Completer, error) {
	constructor, ok := registry["cerebras"]
	if !ok {
		return nil, fmt.Errorf("cerebras provider not registered")
	}

	apiKey, err := config.ResolveAPIKey(
		cfg.Provider.Cerebras.APIKeySource,
		cfg.Provider.Cerebras.APIKey,
		"CEREBRAS_API_KEY",
	)
	if err != nil {
		return nil, fmt.Errorf("resolving Cerebras API key: %w", err)
	}

	baseURL := cfg.Provider.Cerebras.BaseURL
	if baseURL == "" {
		baseURL = cerebrasBaseURL
	}

	return constructor(baseURL, apiKey, nil), nil
}

func newOpenAIProvider(cfg *config.Config) (Completer, error) {
	name := cfg.Provider.Default

	constructor, ok := registry["openai"]
	if !ok {
		return nil, fmt.Errorf("openai provider not registered")
	}

	for _, oc := range cfg.Provider.OpenAI {
		if oc.Name == name {
			envVar := strings.ToUpper(name) + "_API_KEY"
			apiKey, err := config.ResolveAPIKey(oc.APIKeySource, oc.APIKey, envVar)
			if err != nil {
				return nil, fmt.Errorf("resolving %s API key: %w", name, err)
			}

			return constructor(oc.BaseURL, apiKey, oc.ExtraHeaders), nil
		}
	}

	return nil, fmt.Errorf("unknown provider: %q", name)
}
