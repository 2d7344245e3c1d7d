// Package pgvector provides a vector index backed by PostgreSQL with the
// pgvector extension.
package pgvector

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/doceval/internal/core/domain"
	"github.com/custodia-labs/doceval/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

const defaultTable = "doc_vectors"

// Index stores one embedding per document id in a vector(N) column.
// Similarity is cosine, computed by the database as 1 - cosine distance.
// The dimension is fixed when the index is opened.
type Index struct {
	db        *sql.DB
	dimension int
	table     string
}

// Open connects to dsn and prepares the schema.
func Open(ctx context.Context, dsn string, dimension int) (*Index, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %w", domain.ErrVectorIndexUnavailable, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %w", domain.ErrVectorIndexUnavailable, err)
	}

	idx, err := New(ctx, db, dimension)
	if err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

// New wraps an existing connection and runs migrations.
func New(ctx context.Context, db *sql.DB, dimension int) (*Index, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", domain.ErrValidation, dimension)
	}

	idx := &Index{db: db, dimension: dimension, table: defaultTable}
	if err := idx.migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return idx, nil
}

func (i *Index) migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			seq BIGSERIAL,
			embedding vector(%d) NOT NULL
		)`, i.table, i.dimension),
	}

	for _, m := range migrations {
		if _, err := i.db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}
	return nil
}

// Upsert inserts or replaces the vector for id. A replaced row keeps its
// sequence number so tie ordering follows first insertion.
func (i *Index) Upsert(ctx context.Context, id string, embedding []float32) error {
	if id == "" {
		return fmt.Errorf("%w: vector id is required", domain.ErrValidation)
	}
	if len(embedding) == 0 {
		return fmt.Errorf("%w: empty vector for %s", domain.ErrValidation, id)
	}
	if len(embedding) != i.dimension {
		return fmt.Errorf("upsert %s: %w", id, &domain.DimensionMismatchError{Expected: i.dimension, Actual: len(embedding)})
	}

	_, err := i.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, embedding)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET embedding = EXCLUDED.embedding
	`, i.table), id, pgvector.NewVector(embedding))
	if err != nil {
		return fmt.Errorf("%w: upsert vector: %w", domain.ErrVectorIndexUnavailable, err)
	}
	return nil
}

// Remove deletes the vector for id.
func (i *Index) Remove(ctx context.Context, id string) error {
	if _, err := i.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, i.table), id); err != nil {
		return fmt.Errorf("%w: remove vector: %w", domain.ErrVectorIndexUnavailable, err)
	}
	return nil
}

// Query returns the k most similar vectors. Zero-norm vectors score 0.
func (i *Index) Query(ctx context.Context, query []float32, k int) ([]domain.VectorHit, error) {
	if k <= 0 {
		return []domain.VectorHit{}, nil
	}
	if len(query) != i.dimension {
		return nil, fmt.Errorf("query: %w", &domain.DimensionMismatchError{Expected: i.dimension, Actual: len(query)})
	}

	var (
		rows *sql.Rows
		err  error
	)
	if isZero(query) {
		rows, err = i.db.QueryContext(ctx, fmt.Sprintf(`
			SELECT id, 0::float8 AS similarity
			FROM %s
			ORDER BY seq
			LIMIT $1
		`, i.table), k)
	} else {
		rows, err = i.db.QueryContext(ctx, fmt.Sprintf(`
			SELECT id,
				CASE WHEN vector_norm(embedding) = 0 THEN 0
				ELSE 1 - (embedding <=> $1) END AS similarity
			FROM %s
			ORDER BY similarity DESC, seq
			LIMIT $2
		`, i.table), pgvector.NewVector(query), k)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: query: %w", domain.ErrVectorIndexUnavailable, err)
	}
	defer rows.Close()

	hits := make([]domain.VectorHit, 0, k)
	for rows.Next() {
		var hit domain.VectorHit
		if err := rows.Scan(&hit.ID, &hit.Similarity); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		hit.Similarity = clampUnit(hit.Similarity)
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read rows: %w", domain.ErrVectorIndexUnavailable, err)
	}
	return hits, nil
}

// Len returns the number of stored vectors.
func (i *Index) Len(ctx context.Context) (int, error) {
	var n int
	if err := i.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, i.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count vectors: %w", domain.ErrVectorIndexUnavailable, err)
	}
	return n, nil
}

// Dimension returns the fixed vector length.
func (i *Index) Dimension() int {
	return i.dimension
}

// Close closes the database connection.
func (i *Index) Close() error {
	return i.db.Close()
}

func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

func clampUnit(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}
