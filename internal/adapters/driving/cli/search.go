package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/doceval/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Find similar stored documents",
	Long: `Embeds the query and returns the stored documents whose embeddings
are most similar to it. Requires an embedding provider.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if documentService == nil {
		return errors.New("document service not configured")
	}

	results, err := documentService.Search(cmd.Context(), query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

// searchResultJSON is the --json shape of one search result.
type searchResultJSON struct {
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	Status     string  `json:"status"`
	Score      float64 `json:"score"`
	Excerpt    string  `json:"excerpt"`
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	out := make([]searchResultJSON, len(results))
	for i := range results {
		out[i] = searchResultJSON{
			DocumentID: results[i].Document.ID,
			Filename:   results[i].Document.Filename,
			Status:     results[i].Document.Status.String(),
			Score:      results[i].Score,
			Excerpt:    results[i].Excerpt,
		}
	}
	return outputJSON(cmd, out)
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		// Format: [N] Filename (Score)
		name := results[i].Document.Filename
		if name == "" {
			name = results[i].Document.ID
		}

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, name, results[i].Score)
		cmd.Printf("      ID: %s  Status: %s\n", results[i].Document.ID, results[i].Document.Status)
		if results[i].Excerpt != "" {
			cmd.Printf("      %s\n", mutedStyle.Render(results[i].Excerpt))
		}
		cmd.Println()
	}

	return nil
}
