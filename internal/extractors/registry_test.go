package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/doceval/internal/core/domain"
	"github.com/custodia-labs/doceval/internal/extractors/docx"
)

type stubExtractor struct {
	contentType string
	content     string
}

func (s *stubExtractor) Supports(contentType string) bool {
	return contentType == s.contentType
}

func (s *stubExtractor) Extract(_ string, _ []byte) (*domain.ExtractedText, error) {
	return &domain.ExtractedText{Content: s.content, PageCount: 1, WordCount: domain.WordCount(s.content)}, nil
}

func TestRegistry_FirstMatchWins(t *testing.T) {
	r := NewRegistry(
		&stubExtractor{contentType: "text/plain", content: "first"},
		&stubExtractor{contentType: "text/plain", content: "second"},
	)

	result, err := r.Extract("text/plain", nil)
	require.NoError(t, err)
	assert.Equal(t, "first", result.Content)
}

func TestRegistry_Unsupported(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Supports("application/pdf"))

	_, err := r.Extract("application/pdf", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{contentType: "application/pdf", content: "pdf text"})

	assert.True(t, r.Supports("application/pdf"))
}

func TestDefault(t *testing.T) {
	r := Default()

	for _, ct := range []string{"text/plain", "text/markdown", "text/html", docx.ContentType, "application/json"} {
		assert.True(t, r.Supports(ct), ct)
	}
	assert.False(t, r.Supports("application/pdf"))

	result, err := r.Extract("text/markdown", []byte("# Title\n\nBody"))
	require.NoError(t, err)
	assert.Equal(t, "Title\n\nBody", result.Content)
}

func TestContentTypeFor(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"contract.txt", "text/plain"},
		{"README.md", "text/markdown"},
		{"page.HTML", "text/html"},
		{"form.docx", docx.ContentType},
		{"no-extension", "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expected, ContentTypeFor(tt.filename))
		})
	}
}
