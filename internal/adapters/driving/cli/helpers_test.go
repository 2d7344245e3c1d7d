package cli

import (
	"bytes"
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/doceval/internal/core/domain"
	"github.com/custodia-labs/doceval/internal/core/ports/driving"
	"github.com/custodia-labs/doceval/internal/core/services"
)

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	docs    []domain.Document
	result  *domain.EvaluationResult
	results []domain.SearchResult
	err     error

	ingested  []driving.IngestRequest
	lastLimit int
}

func (m *mockDocumentService) Ingest(_ context.Context, req driving.IngestRequest) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.ingested = append(m.ingested, req)
	return &domain.Document{
		ID:          "doc-new",
		Filename:    req.Filename,
		ContentType: req.ContentType,
		Content:     string(req.Data),
		Status:      domain.DocumentStatusUploaded,
		Metadata:    domain.DocumentMetadata{WordCount: 3},
	}, nil
}

func (m *mockDocumentService) Evaluate(_ context.Context, id string) (*domain.EvaluationResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	result := *m.result
	result.DocumentID = id
	return &result, nil
}

func (m *mockDocumentService) Get(_ context.Context, id string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.docs {
		if m.docs[i].ID == id {
			return &m.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockDocumentService) Result(_ context.Context, _ string) (*domain.EvaluationResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockDocumentService) Search(_ context.Context, _ string, limit int) ([]domain.SearchResult, error) {
	m.lastLimit = limit
	return m.results, m.err
}

func (m *mockDocumentService) Reindex(_ context.Context) (int, error) {
	return len(m.docs), m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	pingErr     error

	embeddingSet bool
	llmSet       bool
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.embeddingSet = true
	m.settings.Embedding = domain.EmbeddingSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.llmSet = true
	m.settings.LLM = domain.LLMSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return m.pingErr }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.pingErr }

var (
	_ driving.DocumentService = (*mockDocumentService)(nil)
	_ driving.SettingsService = (*mockSettingsService)(nil)
)

func testDocuments() []domain.Document {
	uploaded := time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)
	return []domain.Document{
		{
			ID:          "doc-1",
			Filename:    "approval.txt",
			ContentType: "text/plain",
			Content:     "APPROVAL LETTER signed by both parties",
			Status:      domain.DocumentStatusEvaluated,
			Embedding:   []float32{0.1, 0.2},
			Metadata:    domain.DocumentMetadata{DocumentType: "LETTER", WordCount: 6},
			UploadedAt:  uploaded,
			EvaluatedAt: &uploaded,
		},
		{
			ID:          "doc-2",
			Filename:    "draft.md",
			ContentType: "text/markdown",
			Content:     "# Draft",
			Status:      domain.DocumentStatusUploaded,
			Metadata:    domain.DocumentMetadata{DocumentType: domain.DefaultDocumentType, WordCount: 1},
			UploadedAt:  uploaded.Add(time.Hour),
		},
	}
}

func testResult() *domain.EvaluationResult {
	trace := domain.NewExecutionTrace(func() time.Time {
		return time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	})
	trace.Add("Retrieved 1 relevant documents")
	trace.Add("Evaluation completed")

	return &domain.EvaluationResult{
		DocumentID:      "doc-1",
		ApprovalStatus:  domain.ApprovalStatusApproved,
		Reason:          "All mandatory rules satisfied",
		ConfidenceScore: 0.87,
		RuleChecks: []domain.RuleCheckResult{
			{RuleName: "Signature Check", Passed: true, Details: "signed by both parties", Confidence: 0.9},
			{RuleName: "Date Validation", Passed: false, Details: "no date found", Confidence: 0.6},
		},
		RelevantContext: []string{"APPROVAL LETTER"},
		Metadata: domain.EvaluationMetadata{
			DocumentID: "doc-1",
			FinalState: domain.EvaluationStateCompleted,
			Trace:      *trace,
			TotalSteps: trace.Len(),
		},
	}
}

// setupTestServices installs mock services and returns a cleanup function
// that restores the previous services and flag values.
func setupTestServices() func() {
	oldDocs, oldSettings, oldRules, oldFile := documentService, settingsService, ruleRegistry, rulesFile

	documentService = &mockDocumentService{
		docs:   testDocuments(),
		result: testResult(),
		results: []domain.SearchResult{
			{Document: testDocuments()[0], Score: 0.92, Excerpt: "APPROVAL LETTER signed"},
		},
	}
	settingsService = &mockSettingsService{settings: domain.DefaultAppSettings()}
	ruleRegistry = services.NewRuleRegistry()
	rulesFile = ""

	return func() {
		documentService, settingsService, ruleRegistry, rulesFile = oldDocs, oldSettings, oldRules, oldFile
		resetFlags()
	}
}

func resetFlags() {
	searchLimit = 10
	searchJSON = false
	evaluateJSON = false
	evaluateTrace = false
	documentResultJSON = false
	ingestDocType = ""
	ingestContentType = ""
}

// execute runs the root command with args and returns the combined output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// newBufferedCommand returns a command whose output is captured.
func newBufferedCommand() (*cobra.Command, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	return cmd, buf
}
