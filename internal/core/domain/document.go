package domain

import (
	"fmt"
	"strings"
	"time"
)

// DocumentStatus is the lifecycle position of a document.
type DocumentStatus string

// Document lifecycle states.
const (
	DocumentStatusUploaded   DocumentStatus = "UPLOADED"
	DocumentStatusProcessing DocumentStatus = "PROCESSING"
	DocumentStatusEvaluated  DocumentStatus = "EVALUATED"
	DocumentStatusFailed     DocumentStatus = "FAILED"
)

// IsValid returns true if the status is recognised.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusUploaded, DocumentStatusProcessing, DocumentStatusEvaluated, DocumentStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for Evaluated and Failed.
func (s DocumentStatus) IsTerminal() bool {
	return s == DocumentStatusEvaluated || s == DocumentStatusFailed
}

// CanAdvanceTo reports whether moving from s to next keeps the lifecycle monotonic:
// Uploaded -> Processing -> {Evaluated | Failed}.
func (s DocumentStatus) CanAdvanceTo(next DocumentStatus) bool {
	switch s {
	case DocumentStatusUploaded:
		return next == DocumentStatusProcessing
	case DocumentStatusProcessing:
		return next == DocumentStatusEvaluated || next == DocumentStatusFailed
	default:
		return false
	}
}

// String returns the string representation.
func (s DocumentStatus) String() string {
	return string(s)
}

// DefaultDocumentType is assigned when ingestion does not classify the document.
const DefaultDocumentType = "UNKNOWN"

// Document represents an ingested document awaiting or having undergone evaluation.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Filename is the original file name supplied at ingestion.
	Filename string

	// ContentType is the MIME type supplied at ingestion.
	ContentType string

	// Content is the extracted text. Must be non-empty for evaluation.
	Content string

	// Embedding is the vector representation assigned once at ingestion.
	Embedding []float32

	// Status is the lifecycle position. Only advances, never regresses.
	Status DocumentStatus

	// Metadata holds extraction details and the document type.
	Metadata DocumentMetadata

	// UploadedAt is when the document was ingested.
	UploadedAt time.Time

	// EvaluatedAt is when the document last reached a terminal status.
	EvaluatedAt *time.Time
}

// DocumentMetadata holds information gathered during extraction.
type DocumentMetadata struct {
	// DocumentType classifies the document. Read during planning.
	DocumentType string

	// PageCount is the number of pages reported by the extractor.
	PageCount int

	// WordCount is the number of whitespace-delimited tokens in Content.
	WordCount int
}

// AdvanceStatus moves the document to next, rejecting any regression.
func (d *Document) AdvanceStatus(next DocumentStatus, at time.Time) error {
	if !d.Status.CanAdvanceTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, d.Status, next)
	}
	d.Status = next
	if next.IsTerminal() {
		d.EvaluatedAt = &at
	}
	return nil
}

// Validate checks the preconditions for evaluating a document.
func (d *Document) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: document id is required", ErrValidation)
	}
	if strings.TrimSpace(d.Content) == "" {
		return fmt.Errorf("%w: document content is empty", ErrValidation)
	}
	return nil
}

// Type returns the document type, falling back to DefaultDocumentType.
func (d *Document) Type() string {
	if d.Metadata.DocumentType == "" {
		return DefaultDocumentType
	}
	return d.Metadata.DocumentType
}

// WordCount returns the number of whitespace-delimited tokens in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ExtractedText is the output of a text extraction collaborator.
type ExtractedText struct {
	Content   string
	PageCount int
	WordCount int
}

// MediaType lowercases a content type and drops any parameters, so
// "Text/Plain; charset=utf-8" becomes "text/plain".
func MediaType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
