package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/doceval/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/doceval/internal/core/domain"
	"github.com/custodia-labs/doceval/internal/core/ports/driving"
)

type documentFixture struct {
	svc      *DocumentService
	store    *memory.DocumentStore
	index    *mockVectorIndex
	embedder *mockEmbeddingService
	reasoner *mockReasoner
}

func newDocumentFixture(t *testing.T) *documentFixture {
	t.Helper()
	f := &documentFixture{
		store:    memory.NewDocumentStore(),
		index:    &mockVectorIndex{},
		embedder: &mockEmbeddingService{embedding: []float32{0.5, 0.5, 0}},
		reasoner: &mockReasoner{assessment: approvedAssessment(0.9)},
	}
	evaluator := NewEvaluator(NewRuleRegistry(), f.index, f.embedder, f.reasoner, f.store, domain.EvaluationSettings{})
	f.svc = NewDocumentService(f.store, f.store, f.index, f.embedder, nil, evaluator)

	ids := []string{"doc-1", "doc-2", "doc-3"}
	f.svc.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	f.svc.now = func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }
	return f
}

func TestDocumentService_Ingest(t *testing.T) {
	f := newDocumentFixture(t)
	ctx := context.Background()

	doc, err := f.svc.Ingest(ctx, driving.IngestRequest{
		Filename:     "letter.txt",
		Data:         []byte(approvalLetter),
		DocumentType: "LETTER",
	})

	require.NoError(t, err)
	assert.Equal(t, "doc-1", doc.ID)
	assert.Equal(t, "text/plain", doc.ContentType)
	assert.Equal(t, domain.DocumentStatusUploaded, doc.Status)
	assert.Equal(t, "LETTER", doc.Metadata.DocumentType)
	assert.Equal(t, domain.WordCount(approvalLetter), doc.Metadata.WordCount)
	assert.Equal(t, []float32{0.5, 0.5, 0}, doc.Embedding)
	assert.Equal(t, []float32{0.5, 0.5, 0}, f.index.upserted["doc-1"])
	assert.Equal(t, []string{approvalLetter}, f.embedder.inputs)

	stored, err := f.store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, approvalLetter, stored.Content)
}

func TestDocumentService_Ingest_EmptyContent(t *testing.T) {
	f := newDocumentFixture(t)

	_, err := f.svc.Ingest(context.Background(), driving.IngestRequest{Filename: "blank.txt", Data: []byte("  \n ")})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, f.index.upserted)
}

func TestDocumentService_Ingest_WithExtractor(t *testing.T) {
	f := newDocumentFixture(t)
	f.svc.extractor = &mockExtractor{
		supported: "text/markdown",
		text:      &domain.ExtractedText{Content: "# Title\nbody", PageCount: 1, WordCount: 3},
	}

	doc, err := f.svc.Ingest(context.Background(), driving.IngestRequest{
		Filename: "note.md", ContentType: "text/markdown", Data: []byte("raw"),
	})
	require.NoError(t, err)
	assert.Equal(t, "# Title\nbody", doc.Content)
	assert.Equal(t, 3, doc.Metadata.WordCount)

	_, err = f.svc.Ingest(context.Background(), driving.IngestRequest{
		Filename: "scan.pdf", ContentType: "application/pdf", Data: []byte("%PDF"),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDocumentService_Ingest_EmbeddingFailure(t *testing.T) {
	f := newDocumentFixture(t)
	f.embedder.embedErr = errors.New("rate limited")

	_, err := f.svc.Ingest(context.Background(), driving.IngestRequest{Data: []byte("text")})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	docs, _ := f.store.ListDocuments(context.Background())
	assert.Empty(t, docs)
}

func TestDocumentService_Ingest_DimensionMismatch(t *testing.T) {
	f := newDocumentFixture(t)
	f.index.upsertErr = &domain.DimensionMismatchError{Expected: 1536, Actual: 3}

	_, err := f.svc.Ingest(context.Background(), driving.IngestRequest{Data: []byte("text")})

	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestDocumentService_Ingest_WithoutEmbedding(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := NewDocumentService(store, store, nil, nil, nil, nil)

	doc, err := svc.Ingest(context.Background(), driving.IngestRequest{Data: []byte("plain words")})

	require.NoError(t, err)
	assert.Nil(t, doc.Embedding)
	assert.NotEmpty(t, doc.ID)
}

func TestDocumentService_Evaluate(t *testing.T) {
	f := newDocumentFixture(t)
	ctx := context.Background()

	doc, err := f.svc.Ingest(ctx, driving.IngestRequest{Data: []byte(approvalLetter)})
	require.NoError(t, err)

	result, err := f.svc.Evaluate(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalStatusApproved, result.ApprovalStatus)

	stored, err := f.svc.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentStatusEvaluated, stored.Status)

	saved, err := f.svc.Result(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, result.ConfidenceScore, saved.ConfidenceScore)
}

func TestDocumentService_Evaluate_DegradedIsNotAnError(t *testing.T) {
	f := newDocumentFixture(t)
	ctx := context.Background()
	f.reasoner.err = domain.ErrUpstream

	doc, err := f.svc.Ingest(ctx, driving.IngestRequest{Data: []byte(approvalLetter)})
	require.NoError(t, err)

	result, err := f.svc.Evaluate(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalStatusNeedsReview, result.ApprovalStatus)

	stored, _ := f.svc.Get(ctx, doc.ID)
	assert.Equal(t, domain.DocumentStatusFailed, stored.Status)
}

func TestDocumentService_Evaluate_NotFound(t *testing.T) {
	f := newDocumentFixture(t)

	_, err := f.svc.Evaluate(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_Result_NotFound(t *testing.T) {
	f := newDocumentFixture(t)

	_, err := f.svc.Result(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_List(t *testing.T) {
	f := newDocumentFixture(t)
	ctx := context.Background()

	_, _ = f.svc.Ingest(ctx, driving.IngestRequest{Data: []byte("first")})
	_, _ = f.svc.Ingest(ctx, driving.IngestRequest{Data: []byte("second")})

	docs, err := f.svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDocumentService_Search(t *testing.T) {
	f := newDocumentFixture(t)
	ctx := context.Background()

	_, _ = f.svc.Ingest(ctx, driving.IngestRequest{Data: []byte("approved by the board")})
	f.index.hits = []domain.VectorHit{{ID: "doc-1", Similarity: 0.87}, {ID: "gone", Similarity: 0.5}}

	results, err := f.svc.Search(ctx, "board approval", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc-1", results[0].Document.ID)
	assert.InDelta(t, 0.87, results[0].Score, 1e-9)
	assert.Equal(t, "approved by the board", results[0].Excerpt)
	assert.Equal(t, 5, f.index.lastK)

	results, err = f.svc.Search(ctx, "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, results)

	_, _ = f.svc.Search(ctx, "anything", 0)
	assert.Equal(t, defaultSearchLimit, f.index.lastK)
}

func TestDocumentService_Search_Unavailable(t *testing.T) {
	store := memory.NewDocumentStore()
	svc := NewDocumentService(store, store, nil, nil, nil, nil)

	_, err := svc.Search(context.Background(), "query", 3)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	svc = NewDocumentService(store, store, nil, &mockEmbeddingService{}, nil, nil)
	_, err = svc.Search(context.Background(), "query", 3)
	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
}

func TestDocumentService_Reindex(t *testing.T) {
	ctx := context.Background()
	store := memory.NewDocumentStore()
	_ = store.SaveDocument(ctx, &domain.Document{ID: "a", Embedding: []float32{1, 0}})
	_ = store.SaveDocument(ctx, &domain.Document{ID: "b"})
	_ = store.SaveDocument(ctx, &domain.Document{ID: "c", Embedding: []float32{0, 1}})

	index := &mockVectorIndex{}
	svc := NewDocumentService(store, store, index, nil, nil, nil)

	n, err := svc.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, index.upserted, 2)

	index.upsertErr = &domain.DimensionMismatchError{Expected: 3, Actual: 2}
	_, err = svc.Reindex(ctx)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestDocumentService_NoStore(t *testing.T) {
	svc := NewDocumentService(nil, nil, nil, nil, nil, nil)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, driving.IngestRequest{Data: []byte("x")})
	assert.ErrorIs(t, err, ErrStoreNotConfigured)
	_, err = svc.Get(ctx, "x")
	assert.ErrorIs(t, err, ErrStoreNotConfigured)
	_, err = svc.List(ctx)
	assert.ErrorIs(t, err, ErrStoreNotConfigured)
}
