package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/custodia-labs/doceval/internal/core/domain"
	"github.com/custodia-labs/doceval/internal/core/ports/driven"
	"github.com/custodia-labs/doceval/internal/core/ports/driving"
	"github.com/custodia-labs/doceval/internal/logger"
)

// Ensure Evaluator implements the interface.
var _ driving.Evaluator = (*Evaluator)(nil)

const tracerName = "github.com/custodia-labs/doceval/internal/core/services"

// Evaluator orchestrates plan, context retrieval, assessment and calibration
// for one document at a time. It holds no per-call state.
type Evaluator struct {
	rules    driving.RuleRegistry
	index    driven.VectorIndex
	embedder driven.EmbeddingService
	reasoner driven.Reasoner
	docStore driven.DocumentStore
	settings domain.EvaluationSettings
	tracer   trace.Tracer
	now      func() time.Time
}

// NewEvaluator creates an evaluator.
// The index, embedder and docStore are optional; without all three, context
// retrieval yields no documents. A nil reasoner makes every evaluation degrade.
// Zero-valued settings fall back to domain.DefaultEvaluationSettings.
func NewEvaluator(
	rules driving.RuleRegistry,
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	reasoner driven.Reasoner,
	docStore driven.DocumentStore,
	settings domain.EvaluationSettings,
) *Evaluator {
	defaults := domain.DefaultEvaluationSettings()
	if settings.ContextSize <= 0 {
		settings.ContextSize = defaults.ContextSize
	}
	if settings.QueryTokens <= 0 {
		settings.QueryTokens = defaults.QueryTokens
	}
	if settings.AssessTimeout <= 0 {
		settings.AssessTimeout = defaults.AssessTimeout
	}
	return &Evaluator{
		rules:    rules,
		index:    index,
		embedder: embedder,
		reasoner: reasoner,
		docStore: docStore,
		settings: settings,
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
}

// SetClock overrides the time source used for traces and timestamps.
func (e *Evaluator) SetClock(now func() time.Time) {
	e.now = now
}

// evaluation is the state of a single Evaluate call.
type evaluation struct {
	doc     *domain.Document
	state   domain.EvaluationState
	trace   *domain.ExecutionTrace
	start   time.Time
	rules   []domain.Rule
	context []string
	draft   *domain.Assessment
	result  *domain.EvaluationResult
}

// nextStates lists the legal successors of each state. The empty state is
// the start of a call.
var nextStates = map[domain.EvaluationState]domain.EvaluationState{
	"":                                     domain.EvaluationStatePlanned,
	domain.EvaluationStatePlanned:          domain.EvaluationStateContextRetrieved,
	domain.EvaluationStateContextRetrieved: domain.EvaluationStateAssessed,
	domain.EvaluationStateAssessed:         domain.EvaluationStateCalibrated,
	domain.EvaluationStateCalibrated:       domain.EvaluationStateCompleted,
}

func (ev *evaluation) advance(next domain.EvaluationState) error {
	if ev.state.IsTerminal() {
		return fmt.Errorf("evaluation already %s", ev.state)
	}
	if next != domain.EvaluationStateFailed && nextStates[ev.state] != next {
		return fmt.Errorf("illegal evaluation step %q -> %q", ev.state, next)
	}
	ev.state = next
	return nil
}

// Evaluate runs the pipeline for doc. It never returns nil and never
// surfaces an error: failures yield a NEEDS_REVIEW result.
func (e *Evaluator) Evaluate(ctx context.Context, doc *domain.Document) *domain.EvaluationResult {
	ev := &evaluation{
		doc:   doc,
		trace: domain.NewExecutionTrace(e.now),
		start: e.now(),
	}

	docID := ""
	if doc != nil {
		docID = doc.ID
	}

	ctx, span := e.tracer.Start(ctx, "evaluate", trace.WithAttributes(attribute.String("document.id", docID)))
	defer span.End()

	logger.Section("Evaluation")
	logger.Debug("Document: %s", docID)

	e.markProcessing(doc)

	if err := e.run(ctx, ev); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Warn("Evaluation of %s degraded: %v", docID, err)
		e.fail(ev, docID, err)
	}

	e.markFinished(doc, ev.result)
	span.SetAttributes(
		attribute.String("evaluation.status", ev.result.ApprovalStatus.String()),
		attribute.Float64("evaluation.confidence", ev.result.ConfidenceScore),
	)
	return ev.result
}

func (e *Evaluator) run(ctx context.Context, ev *evaluation) error {
	if ev.doc == nil {
		return fmt.Errorf("%w: document is nil", domain.ErrValidation)
	}
	if err := ev.doc.Validate(); err != nil {
		return err
	}

	steps := []struct {
		name string
		fn   func(context.Context, *evaluation) error
	}{
		{"plan", e.plan},
		{"retrieve_context", e.retrieveContext},
		{"assess", e.assess},
		{"calibrate", e.calibrate},
		{"complete", e.complete},
	}
	for _, step := range steps {
		if err := e.step(ctx, step.name, ev, step.fn); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) step(
	ctx context.Context, name string, ev *evaluation, fn func(context.Context, *evaluation) error,
) error {
	ctx, span := e.tracer.Start(ctx, name)
	defer span.End()

	if err := fn(ctx, ev); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (e *Evaluator) plan(_ context.Context, ev *evaluation) error {
	docType := ev.doc.Type()
	var selected []domain.Rule
	if e.rules != nil {
		for _, rule := range e.rules.GetAll() {
			if ruleAppliesTo(rule, docType) {
				selected = append(selected, rule)
			}
		}
	}
	ev.rules = selected

	logger.Debug("Document type %s: %d rules selected", docType, len(selected))
	ev.trace.Addf("Planning complete: %d rules identified", len(selected))
	return ev.advance(domain.EvaluationStatePlanned)
}

// ruleAppliesTo decides whether rule is checked for documents of docType.
// Every rule currently applies to every type.
func ruleAppliesTo(_ domain.Rule, _ string) bool {
	return true
}

func (e *Evaluator) retrieveContext(ctx context.Context, ev *evaluation) error {
	ev.context = []string{}

	if e.index == nil || e.embedder == nil || e.docStore == nil {
		logger.Debug("Context retrieval unavailable: index=%t, embedding=%t, store=%t",
			e.index != nil, e.embedder != nil, e.docStore != nil)
		ev.trace.Add("Context retrieved: 0 similar documents")
		return ev.advance(domain.EvaluationStateContextRetrieved)
	}

	query := domain.LeadingWords(ev.doc.Content, e.settings.QueryTokens, "")
	vector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return fmt.Errorf("embed query: %w", asUpstream(err))
	}

	k := e.settings.ContextSize
	if e.settings.ExcludeSelf {
		k++
	}
	similar, err := similarDocuments(ctx, e.index, e.docStore, vector, k)
	if err != nil {
		return err
	}

	for _, s := range similar {
		if len(ev.context) == e.settings.ContextSize {
			break
		}
		if e.settings.ExcludeSelf && s.Document.ID == ev.doc.ID {
			continue
		}
		if e.settings.MinSimilarity > 0 && s.Score < e.settings.MinSimilarity {
			logger.Debug("Dropping context %s: similarity %.3f below %.3f",
				s.Document.ID, s.Score, e.settings.MinSimilarity)
			continue
		}
		ev.context = append(ev.context, s.Document.Content)
	}

	logger.Debug("Retrieved %d context documents", len(ev.context))
	ev.trace.Addf("Context retrieved: %d similar documents", len(ev.context))
	return ev.advance(domain.EvaluationStateContextRetrieved)
}

func (e *Evaluator) assess(ctx context.Context, ev *evaluation) error {
	if e.reasoner == nil {
		return domain.ErrLLMUnavailable
	}

	descriptions := make([]string, len(ev.rules))
	for i, rule := range ev.rules {
		descriptions[i] = rule.Description
	}

	ctx, cancel := context.WithTimeout(ctx, e.settings.AssessTimeout)
	defer cancel()

	draft, err := e.reasoner.Assess(ctx, driven.AssessRequest{
		DocumentContent: ev.doc.Content,
		Rules:           descriptions,
	})
	if err != nil {
		return asUpstream(err)
	}
	if draft == nil {
		return fmt.Errorf("%w: empty assessment", domain.ErrResponseFormat)
	}
	if !draft.ApprovalStatus.IsValid() {
		return fmt.Errorf("%w: unknown approval status %q", domain.ErrResponseFormat, draft.ApprovalStatus)
	}
	if draft.RuleChecks == nil {
		draft.RuleChecks = []domain.RuleCheckResult{}
	}
	ev.draft = draft

	logger.Debug("Draft verdict %s (confidence %.3f, %d rule checks)",
		draft.ApprovalStatus, draft.ConfidenceScore, len(draft.RuleChecks))
	ev.trace.Add("LLM evaluation complete")
	if err := ev.advance(domain.EvaluationStateAssessed); err != nil {
		return err
	}

	ev.result = &domain.EvaluationResult{
		DocumentID:      ev.doc.ID,
		ApprovalStatus:  draft.ApprovalStatus,
		Reason:          draft.Reason,
		ConfidenceScore: draft.ConfidenceScore,
		RuleChecks:      draft.RuleChecks,
		RelevantContext: ev.context,
	}
	return nil
}

func (e *Evaluator) calibrate(_ context.Context, ev *evaluation) error {
	calibrated := Calibrate(ev.draft.ConfidenceScore, len(ev.context))
	logger.Debug("Confidence %.3f -> %.3f (%d context documents)",
		ev.draft.ConfidenceScore, calibrated, len(ev.context))
	ev.result.ConfidenceScore = calibrated
	ev.trace.Add("Confidence adjustment complete")
	return ev.advance(domain.EvaluationStateCalibrated)
}

func (e *Evaluator) complete(_ context.Context, ev *evaluation) error {
	if err := ev.advance(domain.EvaluationStateCompleted); err != nil {
		return err
	}
	ev.trace.Addf("Evaluation complete: %s", ev.result.ApprovalStatus)
	ev.result.EvaluatedAt = e.now()
	ev.result.Metadata = e.metadata(ev, ev.doc.ID)
	ev.result.Metadata.RawConfidence = ev.draft.ConfidenceScore
	logger.Info("Document %s: %s (confidence %.2f)",
		ev.doc.ID, ev.result.ApprovalStatus, ev.result.ConfidenceScore)
	return nil
}

// fail replaces any partial result with the degraded NEEDS_REVIEW result.
func (e *Evaluator) fail(ev *evaluation, docID string, cause error) {
	_ = ev.advance(domain.EvaluationStateFailed)
	ev.trace.Addf("Error: %v", cause)

	ev.result = &domain.EvaluationResult{
		DocumentID:      docID,
		ApprovalStatus:  domain.ApprovalStatusNeedsReview,
		Reason:          "Evaluation failed: " + cause.Error(),
		ConfidenceScore: 0,
		RuleChecks:      []domain.RuleCheckResult{},
		RelevantContext: []string{},
		EvaluatedAt:     e.now(),
	}
	ev.result.Metadata = e.metadata(ev, docID)
}

func (e *Evaluator) metadata(ev *evaluation, docID string) domain.EvaluationMetadata {
	snapshot := ev.trace.Snapshot()
	return domain.EvaluationMetadata{
		DocumentID:       docID,
		StartTime:        ev.start,
		FinalState:       ev.state,
		Trace:            snapshot,
		TotalSteps:       snapshot.Len(),
		RulesEvaluated:   len(ev.rules),
		ContextDocuments: len(ev.context),
	}
}

// markProcessing moves a freshly uploaded document into processing.
// Documents in any other status are evaluated without a status change.
func (e *Evaluator) markProcessing(doc *domain.Document) {
	if doc == nil || doc.Status != domain.DocumentStatusUploaded {
		return
	}
	if err := doc.AdvanceStatus(domain.DocumentStatusProcessing, e.now()); err != nil {
		logger.Warn("Document %s: %v", doc.ID, err)
	}
}

func (e *Evaluator) markFinished(doc *domain.Document, result *domain.EvaluationResult) {
	if doc == nil || doc.Status != domain.DocumentStatusProcessing {
		return
	}
	next := domain.DocumentStatusEvaluated
	if result.IsDegraded() {
		next = domain.DocumentStatusFailed
	}
	if err := doc.AdvanceStatus(next, e.now()); err != nil {
		logger.Warn("Document %s: %v", doc.ID, err)
	}
}

// asUpstream classifies err as an upstream failure unless it already carries
// a response format classification.
func asUpstream(err error) error {
	if errors.Is(err, domain.ErrUpstream) || errors.Is(err, domain.ErrResponseFormat) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrUpstream, err)
}
