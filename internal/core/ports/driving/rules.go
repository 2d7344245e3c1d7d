package driving

import "github.com/custodia-labs/doceval/internal/core/domain"

// RuleRegistry holds the compliance rules available to the evaluator.
// All methods are safe for concurrent use.
type RuleRegistry interface {
	// Add upserts a rule by ID; last write wins.
	Add(rule domain.Rule)

	// Remove deletes the rule with id. Absent ids are ignored.
	Remove(id string)

	// Get returns the rule with id, or domain.ErrNotFound.
	Get(id string) (domain.Rule, error)

	// GetAll returns every rule ordered by priority then id.
	GetAll() []domain.Rule

	// GetByType returns the rules of type t.
	GetByType(t domain.RuleType) []domain.Rule

	// GetMandatory returns the mandatory rules.
	GetMandatory() []domain.Rule

	// Reset restores the bootstrap rules and applies overrides in one step.
	Reset(overrides domain.RuleOverrides)
}
