// Package kv persists documents, embeddings and evaluation results in any
// driven.KeyValueStore using the key layout
//
//	doc:<id>     document JSON without its embedding
//	emb:<id>     embedding as a JSON array
//	result:<id>  latest evaluation result JSON
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/doceval/internal/core/domain"
	"github.com/custodia-labs/doceval/internal/core/ports/driven"
)

// Key prefixes.
const (
	DocumentPrefix  = "doc:"
	EmbeddingPrefix = "emb:"
	ResultPrefix    = "result:"
)

// Ensure Store implements the interfaces.
var (
	_ driven.DocumentStore = (*Store)(nil)
	_ driven.ResultStore   = (*Store)(nil)
)

// Store implements DocumentStore and ResultStore on a key-value backend.
type Store struct {
	kv driven.KeyValueStore
}

// New creates a Store over kv.
func New(kv driven.KeyValueStore) *Store {
	return &Store{kv: kv}
}

type documentRecord struct {
	ID           string                `json:"id"`
	Filename     string                `json:"filename"`
	ContentType  string                `json:"content_type"`
	Content      string                `json:"content"`
	Status       domain.DocumentStatus `json:"status"`
	DocumentType string                `json:"document_type,omitempty"`
	PageCount    int                   `json:"page_count"`
	WordCount    int                   `json:"word_count"`
	UploadedAt   time.Time             `json:"uploaded_at"`
	EvaluatedAt  *time.Time            `json:"evaluated_at,omitempty"`
}

func toRecord(doc *domain.Document) documentRecord {
	return documentRecord{
		ID:           doc.ID,
		Filename:     doc.Filename,
		ContentType:  doc.ContentType,
		Content:      doc.Content,
		Status:       doc.Status,
		DocumentType: doc.Metadata.DocumentType,
		PageCount:    doc.Metadata.PageCount,
		WordCount:    doc.Metadata.WordCount,
		UploadedAt:   doc.UploadedAt,
		EvaluatedAt:  doc.EvaluatedAt,
	}
}

func (r documentRecord) document() *domain.Document {
	return &domain.Document{
		ID:          r.ID,
		Filename:    r.Filename,
		ContentType: r.ContentType,
		Content:     r.Content,
		Status:      r.Status,
		Metadata: domain.DocumentMetadata{
			DocumentType: r.DocumentType,
			PageCount:    r.PageCount,
			WordCount:    r.WordCount,
		},
		UploadedAt:  r.UploadedAt,
		EvaluatedAt: r.EvaluatedAt,
	}
}

// SaveDocument stores the document and, when present, its embedding.
func (s *Store) SaveDocument(ctx context.Context, doc *domain.Document) error {
	data, err := json.Marshal(toRecord(doc))
	if err != nil {
		return fmt.Errorf("marshalling document: %w", err)
	}
	if err := s.kv.Set(ctx, DocumentPrefix+doc.ID, string(data)); err != nil {
		return fmt.Errorf("saving document %s: %w", doc.ID, err)
	}

	if len(doc.Embedding) == 0 {
		return s.kv.Delete(ctx, EmbeddingPrefix+doc.ID)
	}
	emb, err := json.Marshal(doc.Embedding)
	if err != nil {
		return fmt.Errorf("marshalling embedding: %w", err)
	}
	if err := s.kv.Set(ctx, EmbeddingPrefix+doc.ID, string(emb)); err != nil {
		return fmt.Errorf("saving embedding %s: %w", doc.ID, err)
	}
	return nil
}

// GetDocument retrieves a document and its embedding.
func (s *Store) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	data, err := s.kv.Get(ctx, DocumentPrefix+id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("loading document %s: %w", id, err)
	}

	var rec documentRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("unmarshalling document %s: %w", id, err)
	}
	doc := rec.document()

	emb, err := s.kv.Get(ctx, EmbeddingPrefix+id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("loading embedding %s: %w", id, err)
	default:
		if err := json.Unmarshal([]byte(emb), &doc.Embedding); err != nil {
			return nil, fmt.Errorf("unmarshalling embedding %s: %w", id, err)
		}
	}

	return doc, nil
}

// DeleteDocument removes the document, its embedding and its result.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	for _, key := range []string{DocumentPrefix + id, EmbeddingPrefix + id, ResultPrefix + id} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("deleting %s: %w", key, err)
		}
	}
	return nil
}

// ListDocuments returns all documents ordered by upload time, then ID.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	keys, err := s.kv.Keys(ctx, DocumentPrefix)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	docs := make([]domain.Document, 0, len(keys))
	for _, key := range keys {
		doc, err := s.GetDocument(ctx, strings.TrimPrefix(key, DocumentPrefix))
		if errors.Is(err, domain.ErrNotFound) {
			// Deleted between the scan and the read.
			continue
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
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
func (s *Store) SaveResult(ctx context.Context, result *domain.EvaluationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshalling result: %w", err)
	}
	if err := s.kv.Set(ctx, ResultPrefix+result.DocumentID, string(data)); err != nil {
		return fmt.Errorf("saving result %s: %w", result.DocumentID, err)
	}
	return nil
}

// GetResult retrieves the latest result for a document.
func (s *Store) GetResult(ctx context.Context, documentID string) (*domain.EvaluationResult, error) {
	data, err := s.kv.Get(ctx, ResultPrefix+documentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("result for %s: %w", documentID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("loading result %s: %w", documentID, err)
	}

	var result domain.EvaluationResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("unmarshalling result %s: %w", documentID, err)
	}
	return &result, nil
}
