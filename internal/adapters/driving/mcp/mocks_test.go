package mcp

import (
	"context"

	"github.com/custodia-labs/doceval/internal/core/domain"
	"github.com/custodia-labs/doceval/internal/core/ports/driving"
)

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	docs    []domain.Document
	doc     *domain.Document
	result  *domain.EvaluationResult
	results []domain.SearchResult
	err     error

	lastIngest driving.IngestRequest
	lastLimit  int
}

func (m *mockDocumentService) Ingest(_ context.Context, req driving.IngestRequest) (*domain.Document, error) {
	m.lastIngest = req
	return m.doc, m.err
}

func (m *mockDocumentService) Evaluate(_ context.Context, _ string) (*domain.EvaluationResult, error) {
	return m.result, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.doc, m.err
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockDocumentService) Result(_ context.Context, _ string) (*domain.EvaluationResult, error) {
	return m.result, m.err
}

func (m *mockDocumentService) Search(_ context.Context, _ string, limit int) ([]domain.SearchResult, error) {
	m.lastLimit = limit
	return m.results, m.err
}

func (m *mockDocumentService) Reindex(_ context.Context) (int, error) {
	return len(m.docs), m.err
}

// Verify interface compliance.
var _ driving.DocumentService = (*mockDocumentService)(nil)
