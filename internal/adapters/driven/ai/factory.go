// Package ai provides factory functions for creating AI service adapters
// and the vector index and reasoner that depend on them.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/custodia-labs/doceval/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/doceval/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/doceval/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/doceval/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/doceval/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/doceval/internal/adapters/driven/reasoning"
	memoryvec "github.com/custodia-labs/doceval/internal/adapters/driven/vector/memory"
	"github.com/custodia-labs/doceval/internal/adapters/driven/vector/pgvector"
	"github.com/custodia-labs/doceval/internal/core/domain"
	"github.com/custodia-labs/doceval/internal/core/ports/driven"
	"github.com/custodia-labs/doceval/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// dimensionSample is embedded once when a backend needs the vector size
// before the first document arrives.
const dimensionSample = "dimension sample"

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	VectorIndex      driven.VectorIndex
	Reasoner         driven.Reasoner // Nil when no LLM is available.
	Warnings         []string        // Non-fatal issues that caused fallback.
	FellBack         bool            // True if a configured service could not be used.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.VectorIndex != nil {
		r.VectorIndex.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

func (r *InitResult) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Warn("%s", msg)
	r.Warnings = append(r.Warnings, msg)
	r.FellBack = true
}

// Initialise creates every AI-facing collaborator from settings. A configured
// service that fails validation is dropped with a warning, and a pgvector
// index that cannot be opened falls back to the in-memory index. The
// returned result is always usable.
func Initialise(ctx context.Context, settings domain.AppSettings, prompts driven.PromptStore) *InitResult {
	result := &InitResult{}

	emb, err := CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		result.warn("embedding disabled: %v", err)
	}
	result.EmbeddingService = emb

	llm, err := CreateAndValidateLLMService(&settings.LLM)
	if err != nil {
		result.warn("LLM disabled: %v", err)
	}
	result.LLMService = llm

	index, err := CreateVectorIndex(ctx, settings.VectorIndex, emb)
	if err != nil {
		result.warn("vector index fell back to memory: %v", err)
		index = memoryvec.New(memoryvec.WithDimension(settings.VectorIndex.Dimensions))
	}
	result.VectorIndex = index

	if llm != nil {
		r := reasoning.New(llm, reasoning.Config{})
		if prompts != nil {
			r.SetPromptStore(prompts)
		}
		result.Reasoner = r
	}

	return result
}

// CreateVectorIndex creates the vector index selected by settings.
//
// The memory index fixes its dimension from settings when one is configured
// and otherwise from the first upsert. pgvector needs the dimension to create
// its table, so without a configured value it is measured by embedding a
// sample text with emb.
func CreateVectorIndex(ctx context.Context, settings domain.VectorIndexSettings, emb driven.EmbeddingService) (driven.VectorIndex, error) {
	switch settings.Backend {
	case domain.VectorBackendPgvector:
		if settings.PostgresDSN == "" {
			return nil, fmt.Errorf("%w: pgvector backend requires vector_index.postgres_dsn",
				domain.ErrVectorIndexUnavailable)
		}
		dimension := settings.Dimensions
		if dimension <= 0 {
			measured, err := measureDimension(ctx, emb)
			if err != nil {
				return nil, err
			}
			dimension = measured
		}
		index, err := pgvector.Open(ctx, settings.PostgresDSN, dimension)
		if err != nil {
			return nil, err
		}
		return index, nil

	case domain.VectorBackendMemory, "":
		return memoryvec.New(memoryvec.WithDimension(settings.Dimensions)), nil

	default:
		return nil, fmt.Errorf("%w: unsupported vector backend: %s",
			domain.ErrVectorIndexUnavailable, settings.Backend)
	}
}

// measureDimension returns the length of the vectors emb produces.
func measureDimension(ctx context.Context, emb driven.EmbeddingService) (int, error) {
	if emb == nil {
		return 0, fmt.Errorf("%w: vector_index.dimensions is unset and no embedding service can measure it",
			domain.ErrVectorIndexUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	vector, err := emb.Embed(ctx, dimensionSample)
	if err != nil {
		return 0, fmt.Errorf("measure embedding dimension: %w", err)
	}
	if len(vector) == 0 {
		return 0, fmt.Errorf("%w: embedding service returned an empty vector", domain.ErrVectorIndexUnavailable)
	}
	return len(vector), nil
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'doceval settings embedding' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'doceval settings embedding' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'doceval settings llm' to fix",
			domain.ErrLLMUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'doceval settings llm' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	case domain.AIProviderAnthropic:
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama or openai")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicLLM(settings)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := domain.EmbeddingDimensions()[settings.Model]
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

func createOpenAILLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func createAnthropicLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}
