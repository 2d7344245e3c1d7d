package plaintext

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/doceval/internal/core/domain"
	"github.com/custodia-labs/doceval/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

var supportedTypes = map[string]bool{
	"text/plain":       true,
	"text/csv":         true,
	"text/yaml":        true,
	"text/toml":        true,
	"text/xml":         true,
	"application/json": true,
	"application/xml":  true,
}

// Extractor handles plain text documents. Content is returned unchanged
// apart from line ending normalisation.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Supports returns true for plain text MIME types.
func (e *Extractor) Supports(contentType string) bool {
	return supportedTypes[domain.MediaType(contentType)]
}

// Extract returns the text as a single page.
func (e *Extractor) Extract(_ string, data []byte) (*domain.ExtractedText, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: content is not valid UTF-8 text", domain.ErrValidation)
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	content = strings.TrimPrefix(content, "\ufeff")

	return &domain.ExtractedText{
		Content:   content,
		PageCount: pageCount(content),
		WordCount: domain.WordCount(content),
	}, nil
}

// pageCount counts form feeds as page separators.
func pageCount(content string) int {
	return strings.Count(content, "\f") + 1
}
