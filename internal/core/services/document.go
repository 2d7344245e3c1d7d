package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/doceval/internal/core/domain"
	"github.com/custodia-labs/doceval/internal/core/ports/driven"
	"github.com/custodia-labs/doceval/internal/core/ports/driving"
	"github.com/custodia-labs/doceval/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// ErrStoreNotConfigured is returned when no document store was provided.
var ErrStoreNotConfigured = errors.New("document store not configured")

const (
	defaultContentType = "text/plain"
	defaultSearchLimit = 10
)

// DocumentService ingests, evaluates and looks up documents.
type DocumentService struct {
	docStore    driven.DocumentStore
	resultStore driven.ResultStore
	index       driven.VectorIndex
	embedder    driven.EmbeddingService
	extractor   driven.TextExtractor
	evaluator   driving.Evaluator
	now         func() time.Time
	newID       func() string
}

// NewDocumentService creates a new document service.
// The index, embedder and extractor are optional (can be nil).
func NewDocumentService(
	docStore driven.DocumentStore,
	resultStore driven.ResultStore,
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	extractor driven.TextExtractor,
	evaluator driving.Evaluator,
) *DocumentService {
	return &DocumentService{
		docStore:    docStore,
		resultStore: resultStore,
		index:       index,
		embedder:    embedder,
		extractor:   extractor,
		evaluator:   evaluator,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Ingest extracts, embeds, indexes and persists a new document.
func (s *DocumentService) Ingest(ctx context.Context, req driving.IngestRequest) (*domain.Document, error) {
	if s.docStore == nil {
		return nil, ErrStoreNotConfigured
	}

	logger.Section("Ingest")
	contentType := req.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	extracted, err := s.extract(contentType, req.Data)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(extracted.Content) == "" {
		return nil, fmt.Errorf("%w: no text could be extracted from %q", domain.ErrValidation, req.Filename)
	}

	doc := &domain.Document{
		ID:          s.newID(),
		Filename:    req.Filename,
		ContentType: contentType,
		Content:     extracted.Content,
		Status:      domain.DocumentStatusUploaded,
		Metadata: domain.DocumentMetadata{
			DocumentType: req.DocumentType,
			PageCount:    extracted.PageCount,
			WordCount:    extracted.WordCount,
		},
		UploadedAt: s.now(),
	}
	logger.Debug("Document %s: %d words, %d pages", doc.ID, extracted.WordCount, extracted.PageCount)

	if s.embedder != nil && s.index != nil {
		vector, err := s.embedder.Embed(ctx, doc.Content)
		if err != nil {
			return nil, fmt.Errorf("embed document: %w", asUpstream(err))
		}
		if err := s.index.Upsert(ctx, doc.ID, vector); err != nil {
			return nil, fmt.Errorf("index document: %w", err)
		}
		doc.Embedding = vector
	} else {
		logger.Debug("Embedding unavailable, document %s will not be indexed", doc.ID)
	}

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		if s.index != nil && doc.Embedding != nil {
			_ = s.index.Remove(ctx, doc.ID)
		}
		return nil, fmt.Errorf("save document: %w", err)
	}

	logger.Info("Ingested %s as %s", req.Filename, doc.ID)
	return doc, nil
}

func (s *DocumentService) extract(contentType string, data []byte) (*domain.ExtractedText, error) {
	if s.extractor == nil {
		content := string(data)
		return &domain.ExtractedText{
			Content:   content,
			PageCount: 1,
			WordCount: domain.WordCount(content),
		}, nil
	}
	if !s.extractor.Supports(contentType) {
		return nil, fmt.Errorf("%w: unsupported content type %q", domain.ErrValidation, contentType)
	}
	extracted, err := s.extractor.Extract(contentType, data)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	return extracted, nil
}

// Evaluate runs the evaluator on a stored document and persists the
// updated document status and the result.
func (s *DocumentService) Evaluate(ctx context.Context, documentID string) (*domain.EvaluationResult, error) {
	doc, err := s.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if s.evaluator == nil {
		return nil, errors.New("evaluator not configured")
	}

	result := s.evaluator.Evaluate(ctx, doc)

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return result, fmt.Errorf("save document status: %w", err)
	}
	if s.resultStore != nil {
		if err := s.resultStore.SaveResult(ctx, result); err != nil {
			return result, fmt.Errorf("save result: %w", err)
		}
	}
	return result, nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	if s.docStore == nil {
		return nil, ErrStoreNotConfigured
	}
	return s.docStore.GetDocument(ctx, documentID)
}

// List returns all documents.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	if s.docStore == nil {
		return nil, ErrStoreNotConfigured
	}
	return s.docStore.ListDocuments(ctx)
}

// Result returns the latest evaluation for a document.
func (s *DocumentService) Result(ctx context.Context, documentID string) (*domain.EvaluationResult, error) {
	if s.resultStore == nil {
		return nil, fmt.Errorf("result for %s: %w", documentID, domain.ErrNotFound)
	}
	return s.resultStore.GetResult(ctx, documentID)
}

// Search returns stored documents most similar to a free-text query.
func (s *DocumentService) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchResult{}, nil
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.index == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	if s.docStore == nil {
		return nil, ErrStoreNotConfigured
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	logger.Section("Search")
	logger.Debug("Query: %q, limit %d", query, limit)

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", asUpstream(err))
	}
	return similarDocuments(ctx, s.index, s.docStore, vector, limit)
}

// Reindex loads every persisted embedding into the vector index.
func (s *DocumentService) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, domain.ErrVectorIndexUnavailable
	}
	docs, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, doc := range docs {
		if len(doc.Embedding) == 0 {
			continue
		}
		if err := s.index.Upsert(ctx, doc.ID, doc.Embedding); err != nil {
			return count, fmt.Errorf("reindex %s: %w", doc.ID, err)
		}
		count++
	}
	logger.Debug("Reindexed %d of %d documents", count, len(docs))
	return count, nil
}
