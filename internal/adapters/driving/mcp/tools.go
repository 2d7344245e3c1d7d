package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/doceval/internal/core/domain"
	"github.com/custodia-labs/doceval/internal/core/ports/driving"
	"github.com/custodia-labs/doceval/internal/extractors"
)

const defaultSearchLimit = 10

// IngestInput is the input schema for the ingest_document tool.
type IngestInput struct {
	Filename     string `json:"filename" jsonschema:"original file name, used to pick the text extractor"`
	Content      string `json:"content" jsonschema:"the document text"`
	ContentType  string `json:"content_type,omitempty" jsonschema:"MIME type, inferred from the file name when empty"`
	DocumentType string `json:"document_type,omitempty" jsonschema:"optional document classification"`
}

// IngestOutput is the output schema for the ingest_document tool.
type IngestOutput struct {
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
	WordCount  int    `json:"word_count"`
	Embedded   bool   `json:"embedded"`
}

// EvaluateInput is the input schema for the evaluate_document tool.
type EvaluateInput struct {
	DocumentID string `json:"document_id" jsonschema:"id returned by ingest_document"`
}

// EvaluateOutput is the output schema for the evaluate_document tool.
type EvaluateOutput struct {
	DocumentID      string                   `json:"document_id"`
	ApprovalStatus  string                   `json:"approval_status"`
	Reason          string                   `json:"reason"`
	ConfidenceScore float64                  `json:"confidence_score"`
	RuleChecks      []domain.RuleCheckResult `json:"rule_checks"`
	RelevantContext int                      `json:"relevant_context_documents"`
	Degraded        bool                     `json:"degraded"`
	Trace           []string                 `json:"trace"`
}

// SearchInput is the input schema for the search_documents tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"free text to compare against stored documents"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search_documents tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	Status     string  `json:"status"`
	Score      float64 `json:"score"`
	Excerpt    string  `json:"excerpt"`
}

// ListRulesInput is the (empty) input schema for the list_rules tool.
type ListRulesInput struct{}

// ListRulesOutput is the output schema for the list_rules tool.
type ListRulesOutput struct {
	Rules []RuleOutput `json:"rules"`
	Count int          `json:"count"`
}

// RuleOutput represents a single rule.
type RuleOutput struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Priority    int     `json:"priority"`
	Weight      float64 `json:"weight"`
	Mandatory   bool    `json:"mandatory"`
}

// errRulesUnavailable is returned by list_rules when no registry is wired.
var errRulesUnavailable = errors.New("rule registry not configured")

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_document",
		Description: "Store a document so it can be evaluated and used as context for later evaluations",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "evaluate_document",
		Description: "Run the compliance evaluation on a stored document and return the verdict with its audit trace",
	}, s.handleEvaluate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_documents",
		Description: "Find stored documents most similar to a piece of text",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_rules",
		Description: "List the compliance rules applied during evaluation",
	}, s.handleListRules)
}

func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	contentType := input.ContentType
	if contentType == "" {
		contentType = extractors.ContentTypeFor(input.Filename)
	}

	doc, err := s.ports.Document.Ingest(ctx, driving.IngestRequest{
		Filename:     input.Filename,
		ContentType:  contentType,
		Data:         []byte(input.Content),
		DocumentType: input.DocumentType,
	})
	if err != nil {
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		DocumentID: doc.ID,
		Status:     doc.Status.String(),
		WordCount:  doc.Metadata.WordCount,
		Embedded:   len(doc.Embedding) > 0,
	}, nil
}

func (s *Server) handleEvaluate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EvaluateInput,
) (*mcp.CallToolResult, EvaluateOutput, error) {
	result, err := s.ports.Document.Evaluate(ctx, input.DocumentID)
	if err != nil {
		return nil, EvaluateOutput{}, err
	}

	return nil, EvaluateOutput{
		DocumentID:      result.DocumentID,
		ApprovalStatus:  result.ApprovalStatus.String(),
		Reason:          result.Reason,
		ConfidenceScore: result.ConfidenceScore,
		RuleChecks:      result.RuleChecks,
		RelevantContext: len(result.RelevantContext),
		Degraded:        result.IsDegraded(),
		Trace:           result.Metadata.Trace.Lines(),
	}, nil
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	results, err := s.ports.Document.Search(ctx, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			DocumentID: results[i].Document.ID,
			Filename:   results[i].Document.Filename,
			Status:     results[i].Document.Status.String(),
			Score:      results[i].Score,
			Excerpt:    results[i].Excerpt,
		}
	}

	return nil, output, nil
}

func (s *Server) handleListRules(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListRulesInput,
) (*mcp.CallToolResult, ListRulesOutput, error) {
	if s.ports.Rules == nil {
		return nil, ListRulesOutput{}, errRulesUnavailable
	}

	rules := s.ports.Rules.GetAll()
	output := ListRulesOutput{
		Rules: make([]RuleOutput, len(rules)),
		Count: len(rules),
	}
	for i, r := range rules {
		output.Rules[i] = toRuleOutput(r)
	}
	return nil, output, nil
}

func toRuleOutput(r domain.Rule) RuleOutput {
	return RuleOutput{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Type:        r.Type.String(),
		Priority:    r.Priority,
		Weight:      r.Weight,
		Mandatory:   r.Mandatory,
	}
}
