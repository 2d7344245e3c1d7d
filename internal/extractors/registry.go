package extractors

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/doceval/internal/core/domain"
	"github.com/custodia-labs/doceval/internal/core/ports/driven"
	"github.com/custodia-labs/doceval/internal/extractors/docx"
	"github.com/custodia-labs/doceval/internal/extractors/html"
	"github.com/custodia-labs/doceval/internal/extractors/markdown"
	"github.com/custodia-labs/doceval/internal/extractors/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.TextExtractor = (*Registry)(nil)

// Registry dispatches extraction by content type.
type Registry struct {
	mu         sync.RWMutex
	extractors []driven.TextExtractor
}

// NewRegistry creates a registry consulting extractors in the given order.
func NewRegistry(extractors ...driven.TextExtractor) *Registry {
	return &Registry{extractors: extractors}
}

// Default returns a registry with every built-in extractor. Specific
// formats are consulted before the plain text fallback.
func Default() *Registry {
	return NewRegistry(
		markdown.New(),
		html.New(),
		docx.New(),
		plaintext.New(),
	)
}

// Register appends an extractor.
func (r *Registry) Register(e driven.TextExtractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors = append(r.extractors, e)
}

// Supports reports whether any registered extractor handles the type.
func (r *Registry) Supports(contentType string) bool {
	return r.find(contentType) != nil
}

// Extract runs the first extractor supporting the content type.
func (r *Registry) Extract(contentType string, data []byte) (*domain.ExtractedText, error) {
	e := r.find(contentType)
	if e == nil {
		return nil, fmt.Errorf("%w: unsupported content type %q", domain.ErrValidation, contentType)
	}
	return e.Extract(contentType, data)
}

func (r *Registry) find(contentType string) driven.TextExtractor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.extractors {
		if e.Supports(contentType) {
			return e
		}
	}
	return nil
}

var extensionTypes = map[string]string{
	".txt":  "text/plain",
	".text": "text/plain",
	".md":   "text/markdown",
	".html": "text/html",
	".htm":  "text/html",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".json": "application/json",
	".csv":  "text/csv",
}

// ContentTypeFor guesses a content type from a filename, defaulting to
// text/plain.
func ContentTypeFor(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := extensionTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return domain.MediaType(ct)
	}
	return "text/plain"
}
