package plaintext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/doceval/internal/core/domain"
)

func TestSupports(t *testing.T) {
	e := New()
	assert.True(t, e.Supports("text/plain"))
	assert.True(t, e.Supports("text/plain; charset=utf-8"))
	assert.True(t, e.Supports("application/json"))
	assert.False(t, e.Supports("text/markdown"))
	assert.False(t, e.Supports("application/pdf"))
}

func TestExtract(t *testing.T) {
	result, err := New().Extract("text/plain", []byte("Signed by the applicant.\r\nDated 2024-01-01."))
	require.NoError(t, err)

	assert.Equal(t, "Signed by the applicant.\nDated 2024-01-01.", result.Content)
	assert.Equal(t, 1, result.PageCount)
	assert.Equal(t, 6, result.WordCount)
}

func TestExtract_FormFeedPages(t *testing.T) {
	result, err := New().Extract("text/plain", []byte("page one\fpage two\fpage three"))
	require.NoError(t, err)
	assert.Equal(t, 3, result.PageCount)
}

func TestExtract_StripsBOM(t *testing.T) {
	result, err := New().Extract("text/plain", []byte("\ufeffhello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", result.Content)
}

func TestExtract_InvalidUTF8(t *testing.T) {
	_, err := New().Extract("text/plain", []byte{0xff, 0xfe, 0xfd})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExtract_Empty(t *testing.T) {
	result, err := New().Extract("text/plain", nil)
	require.NoError(t, err)
	assert.Equal(t, "", result.Content)
	assert.Equal(t, 0, result.WordCount)
}
