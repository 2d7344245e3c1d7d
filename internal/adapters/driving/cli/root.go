// Package cli provides the doceval command-line interface.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/doceval/internal/core/ports/driving"
	"github.com/custodia-labs/doceval/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// verbose enables debug logging.
var verbose bool

// Services injected by main.
var (
	documentService driving.DocumentService
	settingsService driving.SettingsService
	ruleRegistry    driving.RuleRegistry

	// rulesFile is the YAML rule override file watched while the MCP server runs.
	rulesFile string
)

var rootCmd = &cobra.Command{
	Use:   "doceval",
	Short: "Evaluate documents against compliance rules",
	Long: `doceval checks uploaded documents against a set of compliance rules.

Each evaluation retrieves similar documents already on record, asks the
configured LLM for a verdict and records every step in an audit trace.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Services bundles the driving ports the CLI needs.
type Services struct {
	Document  driving.DocumentService
	Settings  driving.SettingsService
	Rules     driving.RuleRegistry
	RulesFile string
}

// SetServices injects the services used by the commands.
func SetServices(s Services) {
	documentService = s.Document
	settingsService = s.Settings
	ruleRegistry = s.Rules
	rulesFile = s.RulesFile
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, cancelled on shutdown signals.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
