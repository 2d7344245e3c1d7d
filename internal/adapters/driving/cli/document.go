package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage stored documents",
	Long:  `List stored documents, view their content and latest evaluation.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentContentCmd = &cobra.Command{
	Use:   "content [doc-id]",
	Short: "Print extracted document text",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentContent,
}

var documentResultCmd = &cobra.Command{
	Use:   "result [doc-id]",
	Short: "Show the latest evaluation of a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentResult,
}

// documentResultJSON is a flag for the result command.
var documentResultJSON bool

func init() {
	documentResultCmd.Flags().BoolVar(&documentResultJSON, "json", false, "output the result as JSON")
	documentResultCmd.Flags().BoolVarP(&evaluateTrace, "trace", "t", false, "print the execution trace")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentContentCmd)
	documentCmd.AddCommand(documentResultCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    File:   %s\n", docs[i].Filename)
		cmd.Printf("    Status: %s\n", docs[i].Status)
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  File:         %s\n", doc.Filename)
	cmd.Printf("  Content type: %s\n", doc.ContentType)
	cmd.Printf("  Type:         %s\n", doc.Metadata.DocumentType)
	cmd.Printf("  Status:       %s\n", doc.Status)
	cmd.Printf("  Words:        %d\n", doc.Metadata.WordCount)
	if doc.Metadata.PageCount > 0 {
		cmd.Printf("  Pages:        %d\n", doc.Metadata.PageCount)
	}
	cmd.Printf("  Embedded:     %t\n", len(doc.Embedding) > 0)
	cmd.Printf("  Uploaded:     %s\n", doc.UploadedAt.Format("2006-01-02 15:04:05"))
	if doc.EvaluatedAt != nil {
		cmd.Printf("  Evaluated:    %s\n", doc.EvaluatedAt.Format("2006-01-02 15:04:05"))
	}

	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document content: %w", err)
	}

	cmd.Println(doc.Content)
	return nil
}

func runDocumentResult(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	result, err := documentService.Result(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get evaluation result: %w", err)
	}

	if documentResultJSON {
		return outputJSON(cmd, result)
	}
	printResult(cmd, result, evaluateTrace)
	return nil
}
