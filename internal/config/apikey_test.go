package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAPIKeyFromEnv(t *testing.T) {
	t.Setenv("TEST_API_KEY", "sk-test-12345")

	key, err := ResolveAPIKey("env", "", "TEST_API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "sk-test-12345", key)
}

func TestResolveAPIKeyEmptySourceDefaultsToEnv(t *testing.T) {
	t.Setenv("TEST_API_KEY", "sk-test-12345")

	key, err := ResolveAPIKey("", "", "TEST_API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "sk-test-12345", key)
}

func TestResolveAPIKeyEnvNotSet(t *testing.T) {
	t.Setenv("TEST_API_KEY", "")

	_, err := ResolveAPIKey("env", "", "TEST_API_KEY")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TEST_API_KEY")
}

func TestResolveAPIKeyFromConfig(t *testing.T) {
	key, err := ResolveAPIKey("config", "sk-inline", "")
	require.NoError(t, err)
	assert.Equal(t, "sk-inline", key)
}

func TestResolveAPIKeyConfigMissingValue(t *testing.T) {
	_, err := ResolveAPIKey("config", "", "")
	assert.Error(t, err)
}

func TestResolveAPIKeyUnknownSource(t *testing.T) {
	_, err := ResolveAPIKey("vault", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown api_key_source")
}
