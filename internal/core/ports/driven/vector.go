package driven

import (
	"context"

	"github.com/custodia-labs/doceval/internal/core/domain"
)

// VectorIndex stores one fixed-dimension embedding per document id and answers
// top-K cosine similarity queries.
//
// The dimension is fixed by the first successful Upsert (or at construction).
// Upsert and Query with a vector of any other length return an error matching
// domain.ErrDimensionMismatch.
type VectorIndex interface {
	// Upsert inserts or replaces the vector for id.
	Upsert(ctx context.Context, id string, embedding []float32) error

	// Remove deletes the vector for id. Removing an absent id is a no-op.
	Remove(ctx context.Context, id string) error

	// Query returns the min(k, Len()) most similar entries in non-increasing
	// similarity order. An empty index returns an empty slice.
	Query(ctx context.Context, query []float32, k int) ([]domain.VectorHit, error)

	// Len returns the number of indexed vectors.
	Len(ctx context.Context) (int, error)

	// Dimension returns the established vector length, or 0 if none yet.
	Dimension() int

	// Close releases resources.
	Close() error
}
