package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/doceval/internal/core/domain"
	"github.com/custodia-labs/doceval/internal/core/ports/driven"
	"github.com/custodia-labs/doceval/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyStorageBackend    = "storage.backend"
	keyStorageDataDir    = "storage.data_dir"
	keyStorageKeyValue   = "storage.key_value"
	keyRedisAddr         = "storage.redis_addr"
	keyRedisPassword     = "storage.redis_password"
	keyRedisDB           = "storage.redis_db"
	keyVectorBackend     = "vector_index.backend"
	keyVectorDims        = "vector_index.dimensions"
	keyVectorPostgresDSN = "vector_index.postgres_dsn"
	keyContextSize       = "evaluation.context_size"
	keyQueryTokens       = "evaluation.query_tokens"
	keyAssessTimeout     = "evaluation.assess_timeout_seconds"
	keyMinSimilarity     = "evaluation.min_similarity"
	keyExcludeSelf       = "evaluation.exclude_self"
	keyRulesFile         = "rules.file"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Storage: domain.StorageSettings{
			Backend:       s.getStorageBackend(defaults.Storage.Backend),
			DataDir:       s.configStore.GetString(keyStorageDataDir),
			KeyValue:      s.getBool(keyStorageKeyValue, false),
			RedisAddr:     s.configStore.GetString(keyRedisAddr),
			RedisPassword: s.configStore.GetString(keyRedisPassword),
			RedisDB:       s.configStore.GetInt(keyRedisDB),
		},
		VectorIndex: domain.VectorIndexSettings{
			Backend:     s.getVectorBackend(defaults.VectorIndex.Backend),
			Dimensions:  s.getInt(keyVectorDims, defaults.VectorIndex.Dimensions),
			PostgresDSN: s.configStore.GetString(keyVectorPostgresDSN),
		},
		Evaluation: domain.EvaluationSettings{
			ContextSize:   s.getInt(keyContextSize, defaults.Evaluation.ContextSize),
			QueryTokens:   s.getInt(keyQueryTokens, defaults.Evaluation.QueryTokens),
			AssessTimeout: s.getSeconds(keyAssessTimeout, defaults.Evaluation.AssessTimeout),
			MinSimilarity: s.configStore.GetFloat(keyMinSimilarity),
			ExcludeSelf:   s.getBool(keyExcludeSelf, defaults.Evaluation.ExcludeSelf),
		},
		Rules: domain.RulesSettings{
			File: s.configStore.GetString(keyRulesFile),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}

	// Save LLM settings
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	// Save storage settings
	if err := s.configStore.Set(keyStorageBackend, settings.Storage.Backend.String()); err != nil {
		return fmt.Errorf("save storage backend: %w", err)
	}
	if err := s.configStore.Set(keyStorageDataDir, settings.Storage.DataDir); err != nil {
		return fmt.Errorf("save storage data_dir: %w", err)
	}
	if err := s.configStore.Set(keyStorageKeyValue, settings.Storage.KeyValue); err != nil {
		return fmt.Errorf("save storage key_value: %w", err)
	}
	if err := s.configStore.Set(keyRedisAddr, settings.Storage.RedisAddr); err != nil {
		return fmt.Errorf("save redis addr: %w", err)
	}
	if settings.Storage.RedisPassword != "" {
		if err := s.configStore.Set(keyRedisPassword, settings.Storage.RedisPassword); err != nil {
			return fmt.Errorf("save redis password: %w", err)
		}
	}
	if err := s.configStore.Set(keyRedisDB, settings.Storage.RedisDB); err != nil {
		return fmt.Errorf("save redis db: %w", err)
	}

	// Save vector index settings
	if err := s.configStore.Set(keyVectorBackend, settings.VectorIndex.Backend.String()); err != nil {
		return fmt.Errorf("save vector backend: %w", err)
	}
	if err := s.configStore.Set(keyVectorDims, settings.VectorIndex.Dimensions); err != nil {
		return fmt.Errorf("save vector dimensions: %w", err)
	}
	if err := s.configStore.Set(keyVectorPostgresDSN, settings.VectorIndex.PostgresDSN); err != nil {
		return fmt.Errorf("save vector postgres_dsn: %w", err)
	}

	// Save evaluation settings
	eval := settings.Evaluation
	if err := s.configStore.Set(keyContextSize, eval.ContextSize); err != nil {
		return fmt.Errorf("save context size: %w", err)
	}
	if err := s.configStore.Set(keyQueryTokens, eval.QueryTokens); err != nil {
		return fmt.Errorf("save query tokens: %w", err)
	}
	if err := s.configStore.Set(keyAssessTimeout, int(eval.AssessTimeout/time.Second)); err != nil {
		return fmt.Errorf("save assess timeout: %w", err)
	}
	if err := s.configStore.Set(keyMinSimilarity, eval.MinSimilarity); err != nil {
		return fmt.Errorf("save min similarity: %w", err)
	}
	if err := s.configStore.Set(keyExcludeSelf, eval.ExcludeSelf); err != nil {
		return fmt.Errorf("save exclude self: %w", err)
	}

	if err := s.configStore.Set(keyRulesFile, settings.Rules.File); err != nil {
		return fmt.Errorf("save rules file: %w", err)
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	// Validate provider supports embeddings
	validProviders := domain.AllEmbeddingProviders()
	valid := false
	for _, p := range validProviders {
		if p == provider {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		defaults := domain.DefaultEmbeddingModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.Embedding.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.Embedding.BaseURL = ""
	}

	// Set API key
	settings.Embedding.APIKey = apiKey

	// Known models fix the vector size; others take it from the first vector.
	settings.VectorIndex.Dimensions = domain.EmbeddingDimensions()[settings.Embedding.Model]

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		defaults := domain.DefaultLLMModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.LLM.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.LLM.BaseURL = ""
	}

	// Set API key
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that configured providers and backends are consistent.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.LLM.Provider != "" && !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider %s is not fully configured", settings.LLM.Provider)
	}
	if settings.Embedding.Provider != "" && !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider %s is not fully configured", settings.Embedding.Provider)
	}
	if settings.Storage.Backend == domain.StorageBackendRedis && settings.Storage.RedisAddr == "" {
		return fmt.Errorf("storage backend redis requires %s", keyRedisAddr)
	}
	if settings.VectorIndex.Backend == domain.VectorBackendPgvector && settings.VectorIndex.PostgresDSN == "" {
		return fmt.Errorf("vector backend pgvector requires %s", keyVectorPostgresDSN)
	}
	if settings.VectorIndex.Dimensions < 0 {
		return fmt.Errorf("vector dimensions must not be negative, got %d", settings.VectorIndex.Dimensions)
	}
	if settings.Evaluation.MinSimilarity < -1 || settings.Evaluation.MinSimilarity > 1 {
		return fmt.Errorf("min similarity must be within [-1, 1], got %g", settings.Evaluation.MinSimilarity)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return time.Duration(val) * time.Second
}

func (s *SettingsService) getStorageBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	backend := domain.StorageBackend(s.configStore.GetString(keyStorageBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getVectorBackend(defaultVal domain.VectorBackend) domain.VectorBackend {
	backend := domain.VectorBackend(s.configStore.GetString(keyVectorBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
