package driven

import (
	"context"

	"github.com/custodia-labs/doceval/internal/core/domain"
)

// AssessRequest is the input to a Reasoner.
type AssessRequest struct {
	// DocumentContent is the full document text.
	DocumentContent string

	// Rules are the selected rules' descriptions, in plan order.
	Rules []string
}

// Reasoner produces a draft compliance verdict for a document.
//
// Failures must wrap one of:
//   - domain.ErrUpstream: the call failed or timed out
//   - domain.ErrResponseFormat: the response was unparsable, incomplete,
//     or carried an unrecognised approval status
type Reasoner interface {
	Assess(ctx context.Context, req AssessRequest) (*domain.Assessment, error)
}
