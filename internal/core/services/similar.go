package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/doceval/internal/core/domain"
	"github.com/custodia-labs/doceval/internal/core/ports/driven"
	"github.com/custodia-labs/doceval/internal/logger"
)

// similarDocuments queries the index and hydrates hits from the store,
// preserving index order. Hits whose document has been deleted are skipped.
func similarDocuments(
	ctx context.Context,
	index driven.VectorIndex,
	docStore driven.DocumentStore,
	vector []float32,
	k int,
) ([]domain.SearchResult, error) {
	hits, err := index.Query(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		doc, err := docStore.GetDocument(ctx, hit.ID)
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Indexed document %s missing from store, skipping", hit.ID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load document %s: %w", hit.ID, err)
		}
		results = append(results, domain.SearchResult{
			Document: *doc,
			Score:    hit.Similarity,
			Excerpt:  domain.Excerpt(doc.Content),
		})
	}
	return results, nil
}
