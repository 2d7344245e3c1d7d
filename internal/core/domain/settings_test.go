package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_IsValid(t *testing.T) {
	assert.True(t, AIProviderOllama.IsValid())
	assert.True(t, AIProviderOpenAI.IsValid())
	assert.True(t, AIProviderAnthropic.IsValid())
	assert.False(t, AIProvider("").IsValid())
	assert.False(t, AIProvider("cohere").IsValid())
}

func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
}

func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
	assert.Equal(t, unknownDescription, AIProvider("x").Description())
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings LLMSettings
		expected bool
	}{
		{"empty", LLMSettings{}, false},
		{"ollama without key", LLMSettings{Provider: AIProviderOllama}, true},
		{"openai without key", LLMSettings{Provider: AIProviderOpenAI}, false},
		{"openai with key", LLMSettings{Provider: AIProviderOpenAI, APIKey: "sk"}, true},
		{"anthropic with key", LLMSettings{Provider: AIProviderAnthropic, APIKey: "sk"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	assert.False(t, EmbeddingSettings{}.IsConfigured())
	assert.True(t, EmbeddingSettings{Provider: AIProviderOllama}.IsConfigured())
	assert.False(t, EmbeddingSettings{Provider: AIProviderOpenAI}.IsConfigured())
}

func TestStorageBackend_IsValid(t *testing.T) {
	assert.True(t, StorageBackendMemory.IsValid())
	assert.True(t, StorageBackendSQLite.IsValid())
	assert.True(t, StorageBackendRedis.IsValid())
	assert.False(t, StorageBackend("mongo").IsValid())
}

func TestVectorBackend_IsValid(t *testing.T) {
	assert.True(t, VectorBackendMemory.IsValid())
	assert.True(t, VectorBackendPgvector.IsValid())
	assert.False(t, VectorBackend("hnsw").IsValid())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.False(t, s.LLM.IsConfigured())
	assert.False(t, s.Embedding.IsConfigured())
	assert.Equal(t, StorageBackendSQLite, s.Storage.Backend)
	assert.Equal(t, VectorBackendMemory, s.VectorIndex.Backend)
	assert.Zero(t, s.VectorIndex.Dimensions)
	assert.Equal(t, 3, s.Evaluation.ContextSize)
	assert.Equal(t, 200, s.Evaluation.QueryTokens)
	assert.Equal(t, DefaultAssessTimeout, s.Evaluation.AssessTimeout)
	assert.Zero(t, s.Evaluation.MinSimilarity)
	assert.False(t, s.Evaluation.ExcludeSelf)
}

func TestDefaultModels(t *testing.T) {
	for _, p := range AllEmbeddingProviders() {
		assert.NotEmpty(t, DefaultEmbeddingModels()[p], p)
	}
	for _, p := range AllLLMProviders() {
		assert.NotEmpty(t, DefaultLLMModels()[p], p)
	}
	assert.Equal(t, 1536, EmbeddingDimensions()["text-embedding-3-small"])
}
