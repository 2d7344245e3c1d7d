package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested document, result or rule does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates malformed or missing input, such as empty document content.
	ErrValidation = errors.New("validation failed")

	// ErrDimensionMismatch indicates a vector whose length differs from the index dimension.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrResponseFormat indicates the reasoning service returned unparsable or incomplete data.
	ErrResponseFormat = errors.New("invalid response format")

	// ErrUpstream indicates an embedding or reasoning call failed or timed out.
	ErrUpstream = errors.New("upstream call failed")

	// ErrInvalidTransition indicates a document status change that would regress its lifecycle.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Evaluations degrade to NEEDS_REVIEW without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Ingestion and context retrieval are disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)

// DimensionMismatchError reports the established and offending vector lengths.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Is makes errors.Is(err, ErrDimensionMismatch) hold.
func (e *DimensionMismatchError) Is(target error) bool {
	return target == ErrDimensionMismatch
}
