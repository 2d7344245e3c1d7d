package docx

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/doceval/internal/core/domain"
)

func buildDOCX(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

const documentBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Service Agreement</w:t></w:r></w:p>
    <w:p><w:r><w:t>Signed by </w:t></w:r><w:r><w:t>both parties.</w:t><w:br w:type="page"/></w:r></w:p>
    <w:p><w:r><w:t>Annex A</w:t></w:r></w:p>
  </w:body>
</w:document>`

func TestSupports(t *testing.T) {
	e := New()
	assert.True(t, e.Supports(ContentType))
	assert.False(t, e.Supports("application/msword"))
}

func TestExtract(t *testing.T) {
	data := buildDOCX(t, map[string]string{documentPart: documentBody})

	result, err := New().Extract(ContentType, data)
	require.NoError(t, err)

	assert.Equal(t, "Service Agreement\nSigned by both parties.\nAnnex A", result.Content)
	assert.Equal(t, 2, result.PageCount)
	assert.Equal(t, 8, result.WordCount)
}

func TestExtract_NotZip(t *testing.T) {
	_, err := New().Extract(ContentType, []byte("plain text"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExtract_MissingDocumentPart(t *testing.T) {
	data := buildDOCX(t, map[string]string{"docProps/core.xml": "<coreProperties/>"})

	_, err := New().Extract(ContentType, data)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
