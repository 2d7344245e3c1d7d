// Package memory provides an in-process vector index that answers
// similarity queries by a full linear scan.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/doceval/internal/core/domain"
	"github.com/custodia-labs/doceval/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

type entry struct {
	vector []float32
	norm   float64
	seq    uint64
}

// Index is a brute-force cosine similarity index.
//
// Equal similarities are ordered by first insertion; re-upserting an id
// keeps its original position.
type Index struct {
	mu      sync.RWMutex
	dim     int
	entries map[string]*entry
	nextSeq uint64
}

// Option configures an Index.
type Option func(*Index)

// WithDimension fixes the vector length up front instead of taking it from
// the first upsert.
func WithDimension(dim int) Option {
	return func(i *Index) {
		if dim > 0 {
			i.dim = dim
		}
	}
}

// New creates an empty index.
func New(opts ...Option) *Index {
	idx := &Index{entries: make(map[string]*entry)}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Upsert inserts or replaces the vector for id. The vector is copied.
func (i *Index) Upsert(_ context.Context, id string, embedding []float32) error {
	if id == "" {
		return fmt.Errorf("%w: vector id is required", domain.ErrValidation)
	}
	if err := checkFinite(embedding); err != nil {
		return fmt.Errorf("upsert %s: %w", id, err)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.dim == 0 {
		i.dim = len(embedding)
	} else if len(embedding) != i.dim {
		return fmt.Errorf("upsert %s: %w", id, &domain.DimensionMismatchError{Expected: i.dim, Actual: len(embedding)})
	}

	v := append([]float32(nil), embedding...)
	if existing, ok := i.entries[id]; ok {
		existing.vector = v
		existing.norm = norm(v)
		return nil
	}
	i.entries[id] = &entry{vector: v, norm: norm(v), seq: i.nextSeq}
	i.nextSeq++
	return nil
}

// Remove deletes the vector for id.
func (i *Index) Remove(_ context.Context, id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.entries, id)
	return nil
}

type scored struct {
	id         string
	similarity float64
	seq        uint64
}

// Query returns the k most similar vectors in non-increasing similarity order.
// A query with NaN or infinite components is rejected.
func (i *Index) Query(_ context.Context, query []float32, k int) ([]domain.VectorHit, error) {
	if err := checkFinite(query); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	if len(i.entries) == 0 || k <= 0 {
		return []domain.VectorHit{}, nil
	}
	if len(query) != i.dim {
		return nil, fmt.Errorf("query: %w", &domain.DimensionMismatchError{Expected: i.dim, Actual: len(query)})
	}

	qNorm := norm(query)
	results := make([]scored, 0, len(i.entries))
	for id, e := range i.entries {
		sim := similarity(dot(query, e.vector), qNorm, e.norm)
		results = append(results, scored{id: id, similarity: sim, seq: e.seq})
	}

	sort.Slice(results, func(a, b int) bool {
		if results[a].similarity != results[b].similarity {
			return results[a].similarity > results[b].similarity
		}
		return results[a].seq < results[b].seq
	})

	if k > len(results) {
		k = len(results)
	}
	hits := make([]domain.VectorHit, k)
	for n := 0; n < k; n++ {
		hits[n] = domain.VectorHit{ID: results[n].id, Similarity: results[n].similarity}
	}
	return hits, nil
}

// Len returns the number of indexed vectors.
func (i *Index) Len(_ context.Context) (int, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.entries), nil
}

// Dimension returns the established vector length, or 0 before the first upsert.
func (i *Index) Dimension() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.dim
}

// Close is a no-op.
func (i *Index) Close() error {
	return nil
}
