package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peakform/peakform/internal/profile"
)

func TestNewConfigFromProfile(t *testing.T) {
	p := &profile.Profile{
		AIEnabled:           true,
		AIEmbeddingProvider: "openai",
		AIAPIKey:            "sk-test",
		AIBaseURL:           "https://api.openai.com/v1",
		AIEmbeddingModel:    "text-embedding-3-small",
		AIEmbeddingDim:      1024,
	}

	cfg := NewConfigFromProfile(p)
	require.True(t, cfg.Enabled)
	assert.Equal(t, "openai", cfg.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, 1024, cfg.Embedding.Dimensions)
	require.NoError(t, cfg.Validate())
}

func TestConfigDisabled(t *testing.T) {
	cfg := NewConfigFromProfile(&profile.Profile{AIEnabled: false})
	assert.False(t, cfg.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{
		Enabled:   true,
		Embedding: EmbeddingConfig{Provider: "openai", Dimensions: 1024},
	}
	assert.Error(t, cfg.Validate(), "missing API key")

	cfg.Embedding.APIKey = "sk-test"
	cfg.Embedding.Dimensions = 0
	assert.Error(t, cfg.Validate(), "missing dimensions")

	cfg.Embedding.Dimensions = 1024
	assert.NoError(t, cfg.Validate())
}
