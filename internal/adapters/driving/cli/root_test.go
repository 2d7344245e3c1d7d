package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/doceval/internal/core/services"
	"github.com/custodia-labs/doceval/internal/logger"
)

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"ingest", "check", "evaluate", "document", "search", "rules", "settings", "mcp", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestSetServices(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	docs := &mockDocumentService{}
	settings := &mockSettingsService{}
	rules := services.NewRuleRegistry()

	SetServices(Services{Document: docs, Settings: settings, Rules: rules, RulesFile: "rules.yaml"})

	assert.Same(t, docs, documentService)
	assert.Same(t, settings, settingsService)
	assert.Same(t, rules, ruleRegistry)
	assert.Equal(t, "rules.yaml", rulesFile)
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
}

func TestVerboseFlag_EnablesDebugLogging(t *testing.T) {
	defer logger.SetVerbose(false)
	defer func() { verbose = false }()

	_, err := execute("--verbose", "version")

	assert.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}
