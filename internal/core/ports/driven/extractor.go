package driven

import "github.com/custodia-labs/doceval/internal/core/domain"

// TextExtractor turns a raw document blob into text.
type TextExtractor interface {
	// Supports reports whether the extractor handles the MIME type.
	Supports(contentType string) bool

	// Extract returns the text content, page count and word count.
	Extract(contentType string, data []byte) (*domain.ExtractedText, error)
}
