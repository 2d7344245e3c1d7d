package domain

import (
	"math"
	"time"
)

// ApprovalStatus is the verdict of an evaluation.
type ApprovalStatus string

// Available verdicts.
const (
	ApprovalStatusApproved    ApprovalStatus = "APPROVED"
	ApprovalStatusRejected    ApprovalStatus = "REJECTED"
	ApprovalStatusNeedsReview ApprovalStatus = "NEEDS_REVIEW"
)

// IsValid returns true if the status is recognised.
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalStatusApproved, ApprovalStatusRejected, ApprovalStatusNeedsReview:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s ApprovalStatus) String() string {
	return string(s)
}

// EvaluationState is a step of the orchestration state machine.
type EvaluationState string

// Orchestration states. Completed and Failed are terminal.
const (
	EvaluationStatePlanned          EvaluationState = "PLANNED"
	EvaluationStateContextRetrieved EvaluationState = "CONTEXT_RETRIEVED"
	EvaluationStateAssessed         EvaluationState = "ASSESSED"
	EvaluationStateCalibrated       EvaluationState = "CALIBRATED"
	EvaluationStateCompleted        EvaluationState = "COMPLETED"
	EvaluationStateFailed           EvaluationState = "FAILED"
)

// IsTerminal returns true for Completed and Failed.
func (s EvaluationState) IsTerminal() bool {
	return s == EvaluationStateCompleted || s == EvaluationStateFailed
}

// String returns the string representation.
func (s EvaluationState) String() string {
	return string(s)
}

// RuleCheckResult is the outcome of one rule as reported by the reasoner.
type RuleCheckResult struct {
	RuleName   string  `json:"rule_name"`
	Passed     bool    `json:"passed"`
	Details    string  `json:"details"`
	Confidence float64 `json:"confidence"`
}

// Assessment is the draft verdict returned by a Reasoner before merging and calibration.
type Assessment struct {
	ApprovalStatus  ApprovalStatus
	Reason          string
	ConfidenceScore float64
	RuleChecks      []RuleCheckResult
}

// EvaluationMetadata records how an evaluation was carried out.
type EvaluationMetadata struct {
	DocumentID string          `json:"document_id"`
	StartTime  time.Time       `json:"start_time"`
	FinalState EvaluationState `json:"final_state"`
	Trace      ExecutionTrace  `json:"execution_steps"`
	TotalSteps int             `json:"total_steps"`

	RulesEvaluated   int `json:"rules_evaluated"`
	ContextDocuments int `json:"context_documents"`

	// RawConfidence is the reasoner's confidence before calibration.
	RawConfidence float64 `json:"raw_confidence"`
}

// EvaluationResult is the outcome of one evaluation. RuleChecks and
// RelevantContext are never nil.
type EvaluationResult struct {
	DocumentID      string             `json:"document_id"`
	ApprovalStatus  ApprovalStatus     `json:"approval_status"`
	Reason          string             `json:"reason"`
	ConfidenceScore float64            `json:"confidence_score"`
	RuleChecks      []RuleCheckResult  `json:"rule_checks"`
	RelevantContext []string           `json:"relevant_context"`
	Metadata        EvaluationMetadata `json:"metadata"`
	EvaluatedAt     time.Time          `json:"evaluated_at"`
}

// IsDegraded reports whether the result came from the failure path.
func (r *EvaluationResult) IsDegraded() bool {
	return r.Metadata.FinalState == EvaluationStateFailed
}

// PassedChecks returns how many rule checks passed.
func (r *EvaluationResult) PassedChecks() int {
	n := 0
	for _, c := range r.RuleChecks {
		if c.Passed {
			n++
		}
	}
	return n
}

// ClampConfidence bounds c to [0, 1]. NaN maps to 0.
func ClampConfidence(c float64) float64 {
	if math.IsNaN(c) {
		return 0
	}
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
