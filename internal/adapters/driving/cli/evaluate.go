package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/doceval/internal/core/domain"
)

var (
	evaluateJSON  bool
	evaluateTrace bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [doc-id]",
	Short: "Evaluate a stored document",
	Long: `Runs the compliance evaluation on a previously ingested document.

Similar documents on record are retrieved as context, the configured LLM
checks each active rule and the verdict is stored with its audit trace.`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().BoolVar(&evaluateJSON, "json", false, "output the result as JSON")
	evaluateCmd.Flags().BoolVarP(&evaluateTrace, "trace", "t", false, "print the execution trace")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	result, err := documentService.Evaluate(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to evaluate document: %w", err)
	}

	if evaluateJSON {
		return outputJSON(cmd, result)
	}
	printResult(cmd, result, evaluateTrace)
	return nil
}

// printResult writes a human-readable evaluation summary.
func printResult(cmd *cobra.Command, result *domain.EvaluationResult, withTrace bool) {
	cmd.Printf("%s %s\n", titleStyle.Render("Document:"), result.DocumentID)
	cmd.Printf("%s %s\n", titleStyle.Render("Verdict: "), verdictStyle(result.ApprovalStatus).Render(result.ApprovalStatus.String()))
	cmd.Printf("  Confidence: %.2f\n", result.ConfidenceScore)
	cmd.Printf("  Reason:     %s\n", result.Reason)
	if result.IsDegraded() {
		cmd.Println(warningStyle.Render("  Evaluation did not complete; manual review required."))
	}

	if len(result.RuleChecks) > 0 {
		cmd.Printf("\n  Rule checks (%d/%d passed):\n", result.PassedChecks(), len(result.RuleChecks))
		for _, check := range result.RuleChecks {
			cmd.Printf("    [%s] %s (%.2f)\n", checkMark(check.Passed), check.RuleName, check.Confidence)
			if check.Details != "" {
				cmd.Printf("           %s\n", mutedStyle.Render(check.Details))
			}
		}
	}

	if len(result.RelevantContext) > 0 {
		cmd.Printf("\n  Context documents: %d\n", len(result.RelevantContext))
	}

	if withTrace {
		cmd.Println()
		cmd.Println(titleStyle.Render("Execution trace:"))
		for _, line := range result.Metadata.Trace.Lines() {
			cmd.Printf("  %s\n", line)
		}
	}
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
