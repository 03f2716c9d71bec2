package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 800, cfg.Pipeline.SmartFilterThreshold)
}

func TestLoadConfigOverridesDefaultsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codewiki.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  provider: anthropic\n  model: claude-3-5-sonnet\npipeline:\n  language: zh\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "claude-3-5-sonnet", cfg.LLM.Model)
	assert.Equal(t, "zh", cfg.Pipeline.Language)
	// untouched by the file, still defaulted
	assert.Equal(t, 800, cfg.Pipeline.SmartFilterThreshold)
}

func TestApplyEnvOverridesPicksAnthropicKeyOverOpenAI(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "anthropic-key")
	t.Setenv("OPENAI_API_KEY", "")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "anthropic-key", cfg.LLM.APIKey)
}
