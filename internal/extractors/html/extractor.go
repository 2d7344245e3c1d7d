package html

import (
	"html"
	"regexp"
	"strings"

	"github.com/custodia-labs/doceval/internal/core/domain"
	"github.com/custodia-labs/doceval/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor handles HTML documents.
type Extractor struct{}

// New creates a new HTML extractor.
func New() *Extractor {
	return &Extractor{}
}

// Supports returns true for HTML MIME types.
func (e *Extractor) Supports(contentType string) bool {
	switch domain.MediaType(contentType) {
	case "text/html", "application/xhtml+xml":
		return true
	}
	return false
}

// Extract returns the readable text of the page.
func (e *Extractor) Extract(_ string, data []byte) (*domain.ExtractedText, error) {
	content := stripHTML(string(data))
	return &domain.ExtractedText{
		Content:   content,
		PageCount: 1,
		WordCount: domain.WordCount(content),
	}, nil
}

var (
	invisible     = regexp.MustCompile(`(?is)<(script|style|noscript|head|svg)[^>]*>.*?</(script|style|noscript|head|svg)>`)
	comments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockBoundary = regexp.MustCompile(`(?i)</?(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	lineBreaks    = regexp.MustCompile(`(?i)<(br|hr)\s*/?>`)
	tags          = regexp.MustCompile(`<[^>]+>`)
	spaces        = regexp.MustCompile(`[ \t]+`)
)

// stripHTML removes markup and returns one line per non-empty block.
func stripHTML(content string) string {
	content = invisible.ReplaceAllString(content, "")
	content = comments.ReplaceAllString(content, "")
	content = blockBoundary.ReplaceAllString(content, "\n")
	content = lineBreaks.ReplaceAllString(content, "\n")
	content = tags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = spaces.ReplaceAllString(content, " ")

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
