package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaultsWithNoFlagsOrEnv(t *testing.T) {
	cfg, rest, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 4096, cfg.MaxDepth)
	assert.Equal(t, "", cfg.TelemetryDSN)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, rest)
}

func TestLoadFlagsOverrideDefaults(t *testing.T) {
	cfg, rest, err := Load([]string{"--max-depth=128", "--log-level=debug", "input.xl"})
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.MaxDepth)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"input.xl"}, rest)
}

func TestLoadEnvOverridesDefaultButNotFlag(t *testing.T) {
	t.Setenv("XLR_MAX_DEPTH", "256")
	cfg, _, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.MaxDepth)

	cfg, _, err = Load([]string{"--max-depth=64"})
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.MaxDepth)
}

func TestLoadInvalidFlagReturnsError(t *testing.T) {
	_, _, err := Load([]string{"--max-depth=not-a-number"})
	require.Error(t, err)
}

func TestResolveIgnoresCommandLineArgs(t *testing.T) {
	t.Setenv("XLR_LOG_LEVEL", "debug")
	cfg := Resolve()
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 4096, cfg.MaxDepth)
}
