package config

import (
	"fmt"
	"os"
)

// ResolveAPIKey resolves an API key for a provider. Supported sources:
// "env" (read from the named environment variable) and "config" (taken
// from the config file value). An empty source defaults to "env".
func ResolveAPIKey(source, configValue, envVar string) (string, error) {
	switch source {
	case "", "env":
		if envVar == "" {
			return "", fmt.Errorf("no environment variable name specified")
		}
		val := os.Getenv(envVar)
		if val == "" {
			return "", fmt.Errorf("environment variable %s is not set", envVar)
		}
		return val, nil
	case "config":
		if configValue == "" {
			return "", fmt.Errorf("api_key_source is 'config' but no api_key value provided")
		}
		return configValue, nil
	default:
		return "", fmt.Errorf("unknown api_key_source: %q", source)
	}
}
