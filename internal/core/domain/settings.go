package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or a compatible proxy).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or a compatible proxy).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// StorageBackend selects where documents and results are persisted.
type StorageBackend string

// Available storage backends.
const (
	// StorageBackendMemory keeps everything in process memory.
	StorageBackendMemory StorageBackend = "memory"

	// StorageBackendSQLite persists to a local SQLite database.
	StorageBackendSQLite StorageBackend = "sqlite"

	// StorageBackendRedis persists to a Redis key-value store.
	StorageBackendRedis StorageBackend = "redis"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageBackendMemory, StorageBackendSQLite, StorageBackendRedis:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// StorageSettings holds persistence configuration.
type StorageSettings struct {
	Backend StorageBackend

	// DataDir holds the SQLite database. Empty means ~/.doceval/data.
	DataDir string

	// KeyValue stores documents, embeddings and results as prefixed JSON
	// keys instead of tables. Redis always uses this layout.
	KeyValue bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// VectorBackend selects the vector index implementation.
type VectorBackend string

// Available vector backends.
const (
	// VectorBackendMemory is the in-process brute-force index.
	VectorBackendMemory VectorBackend = "memory"

	// VectorBackendPgvector stores vectors in PostgreSQL with the pgvector extension.
	VectorBackendPgvector VectorBackend = "pgvector"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	return b == VectorBackendMemory || b == VectorBackendPgvector
}

// String returns the string representation.
func (b VectorBackend) String() string {
	return string(b)
}

// VectorIndexSettings holds vector index configuration.
type VectorIndexSettings struct {
	Backend VectorBackend

	// Dimensions fixes the embedding vector size. Zero takes it from the
	// first vector stored.
	Dimensions int

	// PostgresDSN is the connection string for the pgvector backend.
	PostgresDSN string
}

// EvaluationSettings tunes the evaluation pipeline.
type EvaluationSettings struct {
	// ContextSize is how many similar documents are retrieved.
	ContextSize int

	// QueryTokens is how many leading words of the document form the similarity query.
	QueryTokens int

	// AssessTimeout bounds the reasoning call.
	AssessTimeout time.Duration

	// MinSimilarity drops context hits scoring below it. Zero disables the filter.
	MinSimilarity float64

	// ExcludeSelf drops the evaluated document from its own context.
	ExcludeSelf bool
}

// RulesSettings points at an optional YAML file of rule overrides.
type RulesSettings struct {
	File string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding   EmbeddingSettings
	LLM         LLMSettings
	Storage     StorageSettings
	VectorIndex VectorIndexSettings
	Evaluation  EvaluationSettings
	Rules       RulesSettings
}

// Evaluation defaults.
const (
	DefaultContextSize   = 3
	DefaultQueryTokens   = 200
	DefaultAssessTimeout = 60 * time.Second
	DefaultDimensions    = 1536
)

// DefaultEvaluationSettings returns the pipeline defaults.
func DefaultEvaluationSettings() EvaluationSettings {
	return EvaluationSettings{
		ContextSize:   DefaultContextSize,
		QueryTokens:   DefaultQueryTokens,
		AssessTimeout: DefaultAssessTimeout,
	}
}

// DefaultAppSettings returns settings with sensible defaults.
// AI features (Embedding, LLM) are left unconfigured by default.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{},
		LLM:       LLMSettings{},
		Storage: StorageSettings{
			Backend: StorageBackendSQLite,
		},
		VectorIndex: VectorIndexSettings{
			Backend: VectorBackendMemory,
		},
		Evaluation: DefaultEvaluationSettings(),
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"all-minilm":             384,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
