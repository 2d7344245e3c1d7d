package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/doceval/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute("search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)
}

func TestSearchCmd_ExecutesWithQuery(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("search", "approval letter")

	require.NoError(t, err)
	assert.Contains(t, out, "[1] approval.txt (0.92)")
	assert.Contains(t, out, "ID: doc-1")
	assert.Contains(t, out, "APPROVAL LETTER signed")
	assert.Equal(t, 10, documentService.(*mockDocumentService).lastLimit)
}

func TestSearchCmd_ExecutesWithShortLimitFlag(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("search", "approval", "-n", "3")

	require.NoError(t, err)
	assert.Equal(t, 3, documentService.(*mockDocumentService).lastLimit)
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("search", "approval", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, `"score": 0.92`)
	assert.Contains(t, out, `"excerpt": "APPROVAL LETTER signed"`)
}

func TestSearchCmd_ServiceNotConfigured(t *testing.T) {
	oldService := documentService
	documentService = nil
	defer func() {
		documentService = oldService
	}()

	_, err := execute("search", "test")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "document service not configured")
}

func TestSearchCmd_ServiceError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	documentService = &mockDocumentService{err: errors.New("embedding unavailable")}

	_, err := execute("search", "test")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
}

func TestOutputSearchJSON_EmptyResults(t *testing.T) {
	cmd, out := newBufferedCommand()

	require.NoError(t, outputSearchJSON(cmd, nil))
	assert.Equal(t, "[]\n", out.String())
}

func TestOutputSearchTable_EmptyResults(t *testing.T) {
	cmd, out := newBufferedCommand()

	require.NoError(t, outputSearchTable(cmd, nil))
	assert.Contains(t, out.String(), "No results found.")
}

func TestOutputSearchTable_WithoutFilename(t *testing.T) {
	cmd, out := newBufferedCommand()

	err := outputSearchTable(cmd, []domain.SearchResult{
		{Document: domain.Document{ID: "doc-9"}, Score: 0.5},
	})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "[1] doc-9 (0.50)")
}
