package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/doceval/internal/core/domain"
	"github.com/custodia-labs/doceval/internal/core/ports/driving"
	"github.com/custodia-labs/doceval/internal/extractors"
)

var (
	ingestDocType     string
	ingestContentType string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Store a document",
	Long: `Extracts text from a file, embeds it and stores it so it can be
evaluated and used as context for later evaluations.

Supported formats: plain text, Markdown, HTML and DOCX.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Ingest and evaluate a file in one step",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	for _, c := range []*cobra.Command{ingestCmd, checkCmd} {
		c.Flags().StringVar(&ingestDocType, "type", "", "document type (e.g. CONTRACT, LETTER)")
		c.Flags().StringVar(&ingestContentType, "content-type", "", "MIME type (inferred from the file extension by default)")
	}
	checkCmd.Flags().BoolVarP(&evaluateTrace, "trace", "t", false, "print the execution trace")
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(checkCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := ingestFile(cmd, args[0])
	if err != nil {
		return err
	}

	cmd.Printf("Document ingested: %s\n", doc.ID)
	cmd.Printf("  Filename: %s\n", doc.Filename)
	cmd.Printf("  Words:    %d\n", doc.Metadata.WordCount)
	if len(doc.Embedding) == 0 {
		cmd.Println(warningStyle.Render("  No embedding stored; the document will not be used as context."))
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := ingestFile(cmd, args[0])
	if err != nil {
		return err
	}

	result, err := documentService.Evaluate(cmd.Context(), doc.ID)
	if err != nil {
		return fmt.Errorf("failed to evaluate document: %w", err)
	}

	printResult(cmd, result, evaluateTrace)
	return nil
}

func ingestFile(cmd *cobra.Command, path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	contentType := ingestContentType
	if contentType == "" {
		contentType = extractors.ContentTypeFor(path)
	}

	doc, err := documentService.Ingest(cmd.Context(), driving.IngestRequest{
		Filename:     filepath.Base(path),
		ContentType:  contentType,
		Data:         data,
		DocumentType: ingestDocType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ingest document: %w", err)
	}
	return doc, nil
}
