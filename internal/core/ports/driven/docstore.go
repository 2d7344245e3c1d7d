package driven

import (
	"context"

	"github.com/custodia-labs/doceval/internal/core/domain"
)

// DocumentStore persists documents.
type DocumentStore interface {
	// SaveDocument stores or updates a document, including its embedding.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if absent.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// DeleteDocument removes a document.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns all documents ordered by upload time.
	ListDocuments(ctx context.Context) ([]domain.Document, error)
}

// ResultStore persists evaluation results, one per document (latest wins).
type ResultStore interface {
	// SaveResult stores the result under its DocumentID.
	SaveResult(ctx context.Context, result *domain.EvaluationResult) error

	// GetResult retrieves the latest result for a document.
	// Returns domain.ErrNotFound if absent.
	GetResult(ctx context.Context, documentID string) (*domain.EvaluationResult, error)
}
