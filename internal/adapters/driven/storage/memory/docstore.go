package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/doceval/internal/core/domain"
	"github.com/custodia-labs/doceval/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interfaces.
var (
	_ driven.DocumentStore = (*DocumentStore)(nil)
	_ driven.ResultStore   = (*DocumentStore)(nil)
)

// DocumentStore is an in-memory implementation of driven.DocumentStore
// and driven.ResultStore.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	results   map[string]domain.EvaluationResult
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		results:   make(map[string]domain.EvaluationResult),
	}
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.ID] = copyDocument(*doc)
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	doc = copyDocument(doc)
	return &doc, nil
}

// DeleteDocument removes a document and its result.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
	delete(s.results, id)
	return nil
}

// ListDocuments returns all documents ordered by upload time, then ID.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]domain.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		docs = append(docs, copyDocument(doc))
	}
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].UploadedAt.Equal(docs[j].UploadedAt) {
			return docs[i].UploadedAt.Before(docs[j].UploadedAt)
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

// SaveResult stores the latest result for a document.
func (s *DocumentStore) SaveResult(_ context.Context, result *domain.EvaluationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.DocumentID] = *result
	return nil
}

// GetResult retrieves the latest result for a document.
func (s *DocumentStore) GetResult(_ context.Context, documentID string) (*domain.EvaluationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result, ok := s.results[documentID]
	if !ok {
		return nil, fmt.Errorf("result for %s: %w", documentID, domain.ErrNotFound)
	}
	return &result, nil
}

func copyDocument(doc domain.Document) domain.Document {
	if doc.Embedding != nil {
		doc.Embedding = append([]float32(nil), doc.Embedding...)
	}
	if doc.EvaluatedAt != nil {
		at := *doc.EvaluatedAt
		doc.EvaluatedAt = &at
	}
	return doc
}
