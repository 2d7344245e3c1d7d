package driving

import (
	"context"

	"github.com/custodia-labs/doceval/internal/core/domain"
)

// Evaluator runs the retrieval-augmented compliance evaluation of one document.
//
// Evaluate never returns an error. Any failure inside the pipeline produces a
// NEEDS_REVIEW result with zero confidence, no rule checks and a reason.
// Evaluate is safe for concurrent use with distinct documents.
type Evaluator interface {
	Evaluate(ctx context.Context, doc *domain.Document) *domain.EvaluationResult
}
