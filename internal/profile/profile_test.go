package profile

import (
	"os"
	"testing"
)

func TestProfileFromEnvDefaults(t *testing.T) {
	clearEngineEnvVars()

	profile := &Profile{}
	profile.FromEnv()

	if profile.AIEnabled {
		t.Errorf("AIEnabled: expected false by default")
	}
	if profile.AIEmbeddingProvider != "openai" {
		t.Errorf("AIEmbeddingProvider: expected %q, got %q", "openai", profile.AIEmbeddingProvider)
	}
	if profile.AIBaseURL != "https://api.openai.com/v1" {
		t.Errorf("AIBaseURL: expected default OpenAI URL, got %q", profile.AIBaseURL)
	}
	if profile.AIEmbeddingModel != "text-embedding-3-small" {
		t.Errorf("AIEmbeddingModel: expected %q, got %q", "text-embedding-3-small", profile.AIEmbeddingModel)
	}
	if profile.AIEmbeddingDim != 1024 {
		t.Errorf("AIEmbeddingDim: expected 1024, got %d", profile.AIEmbeddingDim)
	}
	if profile.ContextRecordLimit != 200 {
		t.Errorf("ContextRecordLimit: expected 200, got %d", profile.ContextRecordLimit)
	}
	if profile.MemoryRetentionDays != 30 {
		t.Errorf("MemoryRetentionDays: expected 30, got %d", profile.MemoryRetentionDays)
	}
	if profile.ProvenanceWindowDays != 7 {
		t.Errorf("ProvenanceWindowDays: expected 7, got %d", profile.ProvenanceWindowDays)
	}
}

func TestProfileFromEnvOverrides(t *testing.T) {
	clearEngineEnvVars()

	os.Setenv("PEAKFORM_AI_ENABLED", "true")
	os.Setenv("PEAKFORM_AI_API_KEY", "sk-test")
	os.Setenv("PEAKFORM_CONTEXT_RECORD_LIMIT", "50")
	os.Setenv("PEAKFORM_MEMORY_RETENTION_DAYS", "14")
	defer clearEngineEnvVars()

	profile := &Profile{}
	profile.FromEnv()

	if !profile.IsAIEnabled() {
		t.Errorf("IsAIEnabled: expected true with AIEnabled and API key set")
	}
	if profile.ContextRecordLimit != 50 {
		t.Errorf("ContextRecordLimit: expected 50, got %d", profile.ContextRecordLimit)
	}
	if profile.MemoryRetentionDays != 14 {
		t.Errorf("MemoryRetentionDays: expected 14, got %d", profile.MemoryRetentionDays)
	}
}

func TestProfileFromEnvInvalidInt(t *testing.T) {
	clearEngineEnvVars()

	os.Setenv("PEAKFORM_CONTEXT_RECORD_LIMIT", "not-a-number")
	os.Setenv("PEAKFORM_MEMORY_RETENTION_DAYS", "-3")
	defer clearEngineEnvVars()

	profile := &Profile{}
	profile.FromEnv()

	// Invalid or non-positive values fall back to defaults.
	if profile.ContextRecordLimit != 200 {
		t.Errorf("ContextRecordLimit: expected default 200, got %d", profile.ContextRecordLimit)
	}
	if profile.MemoryRetentionDays != 30 {
		t.Errorf("MemoryRetentionDays: expected default 30, got %d", profile.MemoryRetentionDays)
	}
}

func clearEngineEnvVars() {
	envVars := []string{
		"PEAKFORM_AI_ENABLED",
		"PEAKFORM_AI_EMBEDDING_PROVIDER",
		"PEAKFORM_AI_API_KEY",
		"PEAKFORM_AI_BASE_URL",
		"PEAKFORM_AI_EMBEDDING_MODEL",
		"PEAKFORM_AI_EMBEDDING_DIM",
		"PEAKFORM_CONTEXT_RECORD_LIMIT",
		"PEAKFORM_MEMORY_RETENTION_DAYS",
		"PEAKFORM_PROVENANCE_WINDOW_DAYS",
	}
	for _, v := range envVars {
		os.Unsetenv(v)
	}
}
