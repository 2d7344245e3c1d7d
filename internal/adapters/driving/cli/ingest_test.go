package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/doceval/internal/core/domain"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestIngestCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute("ingest")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestIngestCmd_IngestsFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	path := writeTempFile(t, "letter.md", "# Approval\nSigned today")

	out, err := execute("ingest", path, "--type", "LETTER")

	require.NoError(t, err)
	assert.Contains(t, out, "Document ingested: doc-new")
	assert.Contains(t, out, "Filename: letter.md")

	mock := documentService.(*mockDocumentService)
	require.Len(t, mock.ingested, 1)
	req := mock.ingested[0]
	assert.Equal(t, "letter.md", req.Filename)
	assert.Equal(t, "text/markdown", req.ContentType)
	assert.Equal(t, "LETTER", req.DocumentType)
	assert.Equal(t, []byte("# Approval\nSigned today"), req.Data)
}

func TestIngestCmd_ContentTypeOverride(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	path := writeTempFile(t, "letter.md", "plain words")

	_, err := execute("ingest", path, "--content-type", "text/plain")

	require.NoError(t, err)
	assert.Equal(t, "text/plain", documentService.(*mockDocumentService).ingested[0].ContentType)
}

func TestIngestCmd_WarnsWithoutEmbedding(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	path := writeTempFile(t, "note.txt", "short note")

	out, err := execute("ingest", path)

	require.NoError(t, err)
	assert.Contains(t, out, "No embedding stored")
}

func TestIngestCmd_MissingFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("ingest", filepath.Join(t.TempDir(), "absent.txt"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestIngestCmd_ValidationError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	documentService = &mockDocumentService{err: domain.ErrValidation}
	path := writeTempFile(t, "empty.txt", "   ")

	_, err := execute("ingest", path)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCheckCmd_IngestsAndEvaluates(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	path := writeTempFile(t, "contract.txt", "signed contract")

	out, err := execute("check", path)

	require.NoError(t, err)
	assert.Contains(t, out, "doc-new")
	assert.Contains(t, out, "APPROVED")
	assert.Len(t, documentService.(*mockDocumentService).ingested, 1)
}

func TestIngestCmds_ServiceNotConfigured(t *testing.T) {
	oldService := documentService
	documentService = nil
	defer func() {
		documentService = oldService
	}()

	for _, name := range []string{"ingest", "check"} {
		_, err := execute(name, "file.txt")
		require.Error(t, err, name)
		assert.Contains(t, err.Error(), "document service not configured")
	}
}
