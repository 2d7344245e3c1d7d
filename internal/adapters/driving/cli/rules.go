package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect compliance rules",
	Long: `Show the rules applied during evaluation.

Rules can be added, replaced or removed through the YAML file configured
under rules.file. The file is re-read on every start and watched while
the MCP server runs.`,
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active rules",
	Args:  cobra.NoArgs,
	RunE:  runRulesList,
}

var rulesShowCmd = &cobra.Command{
	Use:   "show [rule-id]",
	Short: "Show a single rule",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesShow,
}

func init() {
	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesShowCmd)
	rootCmd.AddCommand(rulesCmd)
}

func runRulesList(cmd *cobra.Command, _ []string) error {
	if ruleRegistry == nil {
		return errors.New("rule registry not configured")
	}

	rules := ruleRegistry.GetAll()
	if len(rules) == 0 {
		cmd.Println("No rules configured.")
		return nil
	}

	cmd.Println("Rules:")
	cmd.Println()
	for _, r := range rules {
		marker := ""
		if r.Mandatory {
			marker = " (mandatory)"
		}
		cmd.Printf("  %d. %s [%s]%s\n", r.Priority, r.Name, r.ID, marker)
		cmd.Printf("     %s\n", mutedStyle.Render(r.Description))
	}
	cmd.Println()
	cmd.Printf("Total: %d rules\n", len(rules))
	return nil
}

func runRulesShow(cmd *cobra.Command, args []string) error {
	if ruleRegistry == nil {
		return errors.New("rule registry not configured")
	}

	r, err := ruleRegistry.Get(args[0])
	if err != nil {
		return fmt.Errorf("failed to get rule: %w", err)
	}

	cmd.Printf("Rule: %s\n\n", r.ID)
	cmd.Printf("  Name:        %s\n", r.Name)
	cmd.Printf("  Type:        %s\n", r.Type)
	cmd.Printf("  Priority:    %d\n", r.Priority)
	cmd.Printf("  Weight:      %.2f\n", r.Weight)
	cmd.Printf("  Mandatory:   %t\n", r.Mandatory)
	cmd.Printf("  Description: %s\n", r.Description)
	return nil
}
