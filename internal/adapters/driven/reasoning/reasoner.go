// Package reasoning provides an LLM-backed Reasoner that turns a chat
// completion into a strict, schema-checked compliance verdict.
package reasoning

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/doceval/internal/core/domain"
	"github.com/custodia-labs/doceval/internal/core/ports/driven"
	"github.com/custodia-labs/doceval/internal/logger"
)

// Ensure Reasoner implements the interfaces.
var (
	_ driven.Reasoner         = (*Reasoner)(nil)
	_ driven.PromptStoreAware = (*Reasoner)(nil)
)

// Default generation parameters.
const (
	DefaultTemperature = 0.1
	DefaultMaxTokens   = 2000
)

// defaultCompliancePrompt is the fallback prompt when no PromptStore is configured.
const defaultCompliancePrompt = `You are a document compliance evaluator. Analyze the following document and check if it meets the specified rules.

DOCUMENT CONTENT:
{{document}}

RULES TO CHECK:
{{rules}}
You must respond ONLY with valid JSON in this exact format:
{
  "approval_status": "APPROVED" or "REJECTED" or "NEEDS_REVIEW",
  "reason": "Brief explanation of the decision",
  "confidence_score": 0.0 to 1.0,
  "rule_checks": [
    {
      "rule_name": "Rule description",
      "passed": true or false,
      "details": "Specific findings",
      "confidence": 0.0 to 1.0
    }
  ]
}`

// defaultSystemPrompt is the fallback system message.
const defaultSystemPrompt = `You are a precise document compliance analyst. Always return valid JSON.`

// Config tunes the chat call.
type Config struct {
	// Temperature controls randomness (default: 0.1).
	Temperature float64

	// MaxTokens bounds the reply length (default: 2000).
	MaxTokens int
}

// Reasoner asks an LLM for a compliance verdict.
type Reasoner struct {
	llm         driven.LLMService
	cfg         Config
	promptStore driven.PromptStore
}

// New creates a Reasoner on top of llm.
func New(llm driven.LLMService, cfg Config) *Reasoner {
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	return &Reasoner{llm: llm, cfg: cfg}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the reasoner uses hardcoded default prompts.
func (r *Reasoner) SetPromptStore(store driven.PromptStore) {
	r.promptStore = store
}

// Assess builds the compliance prompt, calls the model and parses its reply.
func (r *Reasoner) Assess(ctx context.Context, req driven.AssessRequest) (*domain.Assessment, error) {
	if r.llm == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, domain.ErrLLMUnavailable)
	}

	messages := []driven.ChatMessage{
		{Role: "system", Content: r.loadPrompt(driven.PromptComplianceSystem, defaultSystemPrompt)},
		{Role: "user", Content: r.buildPrompt(req)},
	}

	reply, err := r.llm.Chat(ctx, messages, driven.ChatOptions{
		Temperature: r.cfg.Temperature,
		MaxTokens:   r.cfg.MaxTokens,
		JSON:        true,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUpstream) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrUpstream, r.llm.ModelName(), err)
	}

	logger.Debug("reasoning: %d byte reply from %s", len(reply), r.llm.ModelName())
	return ParseAssessment(reply)
}

// buildPrompt fills the compliance template with the document and numbered
// rules. Substitution is a single pass, so placeholder text inside the
// document is left alone.
func (r *Reasoner) buildPrompt(req driven.AssessRequest) string {
	var rules strings.Builder
	for i, rule := range req.Rules {
		fmt.Fprintf(&rules, "%d. %s\n", i+1, rule)
	}

	template := r.loadPrompt(driven.PromptCompliance, defaultCompliancePrompt)
	if !strings.Contains(template, driven.PlaceholderDocument) {
		logger.Warn("reasoning: prompt %q has no %s placeholder, using default",
			driven.PromptCompliance, driven.PlaceholderDocument)
		template = defaultCompliancePrompt
	}

	return strings.NewReplacer(
		driven.PlaceholderDocument, req.DocumentContent,
		driven.PlaceholderRules, rules.String(),
	).Replace(template)
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (r *Reasoner) loadPrompt(name, fallback string) string {
	if r.promptStore == nil {
		return fallback
	}
	prompt, err := r.promptStore.Load(name)
	if err != nil || prompt == "" {
		logger.Warn("reasoning: prompt %q unavailable, using default: %v", name, err)
		return fallback
	}
	return prompt
}

type response struct {
	ApprovalStatus  string                   `json:"approval_status"`
	Reason          string                   `json:"reason"`
	ConfidenceScore float64                  `json:"confidence_score"`
	RuleChecks      []domain.RuleCheckResult `json:"rule_checks"`
}

// ParseAssessment strips code fences from a model reply, validates it against
// the response schema and converts it to an Assessment. Every failure wraps
// domain.ErrResponseFormat.
func ParseAssessment(reply string) (*domain.Assessment, error) {
	cleaned := StripFences(reply)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty reply", domain.ErrResponseFormat)
	}

	var doc any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, fmt.Errorf("%w: not JSON: %w", domain.ErrResponseFormat, err)
	}
	if err := responseSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrResponseFormat, err)
	}

	var resp response
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrResponseFormat, err)
	}

	status := domain.ApprovalStatus(resp.ApprovalStatus)
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown approval status %q", domain.ErrResponseFormat, resp.ApprovalStatus)
	}

	checks := resp.RuleChecks
	if checks == nil {
		checks = []domain.RuleCheckResult{}
	}

	return &domain.Assessment{
		ApprovalStatus:  status,
		Reason:          resp.Reason,
		ConfidenceScore: resp.ConfidenceScore,
		RuleChecks:      checks,
	}, nil
}

// StripFences removes a leading ```json or ``` marker and a trailing ``` marker.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "```json"):
		s = s[len("```json"):]
	case strings.HasPrefix(s, "```"):
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
