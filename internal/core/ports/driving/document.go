package driving

import (
	"context"

	"github.com/custodia-labs/doceval/internal/core/domain"
)

// IngestRequest describes a document to ingest.
type IngestRequest struct {
	// Filename is the original file name.
	Filename string

	// ContentType is the MIME type. Defaults to text/plain.
	ContentType string

	// Data is the raw document blob.
	Data []byte

	// DocumentType optionally classifies the document.
	DocumentType string
}

// DocumentService manages documents and their evaluations.
type DocumentService interface {
	// Ingest extracts, embeds, indexes and persists a new document.
	// Returns domain.ErrValidation if no text could be extracted.
	Ingest(ctx context.Context, req IngestRequest) (*domain.Document, error)

	// Evaluate runs the evaluator on a stored document and persists the outcome.
	// Returns domain.ErrNotFound for an unknown id; evaluation failures are
	// reported through the result, not the error.
	Evaluate(ctx context.Context, documentID string) (*domain.EvaluationResult, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// List returns all documents.
	List(ctx context.Context) ([]domain.Document, error)

	// Result returns the latest evaluation for a document.
	Result(ctx context.Context, documentID string) (*domain.EvaluationResult, error)

	// Search returns stored documents most similar to a free-text query.
	Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)

	// Reindex loads every persisted embedding into the vector index.
	// Returns the number of vectors indexed.
	Reindex(ctx context.Context) (int, error)
}
