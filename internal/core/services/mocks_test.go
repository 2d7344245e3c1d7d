package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/doceval/internal/core/domain"
	"github.com/custodia-labs/doceval/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	mu        sync.Mutex
	hits      []domain.VectorHit
	queryErr  error
	upsertErr error
	upserted  map[string][]float32
	lastK     int
}

func (m *mockVectorIndex) Upsert(_ context.Context, id string, embedding []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if m.upserted == nil {
		m.upserted = make(map[string][]float32)
	}
	m.upserted[id] = embedding
	return nil
}

func (m *mockVectorIndex) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.upserted, id)
	return nil
}

func (m *mockVectorIndex) Query(_ context.Context, _ []float32, k int) ([]domain.VectorHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastK = k
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Len(_ context.Context) (int, error) {
	return len(m.hits), nil
}

func (m *mockVectorIndex) Dimension() int {
	return 3
}

func (m *mockVectorIndex) Close() error {
	return nil
}

// mockEmbeddingService implements driven.EmbeddingService for testing.
type mockEmbeddingService struct {
	mu        sync.Mutex
	embedding []float32
	embedErr  error
	inputs    []string
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, text)
	m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		result[i] = v
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	return len(m.embedding)
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockReasoner implements driven.Reasoner for testing.
type mockReasoner struct {
	mu         sync.Mutex
	assessment *domain.Assessment
	err        error
	block      bool
	requests   []driven.AssessRequest
}

func (m *mockReasoner) Assess(ctx context.Context, req driven.AssessRequest) (*domain.Assessment, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.assessment == nil {
		return nil, nil
	}
	copied := *m.assessment
	return &copied, nil
}

// mockExtractor implements driven.TextExtractor for testing.
type mockExtractor struct {
	supported string
	text      *domain.ExtractedText
	err       error
}

func (m *mockExtractor) Supports(contentType string) bool {
	return contentType == m.supported
}

func (m *mockExtractor) Extract(_ string, _ []byte) (*domain.ExtractedText, error) {
	return m.text, m.err
}

func approvedAssessment(confidence float64) *domain.Assessment {
	return &domain.Assessment{
		ApprovalStatus:  domain.ApprovalStatusApproved,
		Reason:          "All mandatory rules satisfied",
		ConfidenceScore: confidence,
		RuleChecks: []domain.RuleCheckResult{
			{RuleName: "Signature Verification", Passed: true, Details: "Signed: John Doe", Confidence: 0.95},
		},
	}
}
