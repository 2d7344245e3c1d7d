package services

import (
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/doceval/internal/core/domain"
	"github.com/custodia-labs/doceval/internal/core/ports/driving"
	"github.com/custodia-labs/doceval/internal/logger"
)

// Ensure RuleRegistry implements the interface.
var _ driving.RuleRegistry = (*RuleRegistry)(nil)

// RuleRegistry is an in-memory rule set seeded with domain.DefaultRules.
// Readers never observe a partially applied Reset.
type RuleRegistry struct {
	mu    sync.RWMutex
	rules map[string]domain.Rule
}

// NewRuleRegistry creates a registry holding the bootstrap rules.
func NewRuleRegistry() *RuleRegistry {
	r := &RuleRegistry{}
	r.rules = bootstrapRules()
	return r
}

func bootstrapRules() map[string]domain.Rule {
	defaults := domain.DefaultRules()
	rules := make(map[string]domain.Rule, len(defaults))
	for _, rule := range defaults {
		rules[rule.ID] = rule
	}
	return rules
}

// Add upserts a rule by ID.
func (r *RuleRegistry) Add(rule domain.Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[rule.ID] = rule
}

// Remove deletes a rule. Absent ids are ignored.
func (r *RuleRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rules, id)
}

// Get returns the rule with id.
func (r *RuleRegistry) Get(id string) (domain.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[id]
	if !ok {
		return domain.Rule{}, fmt.Errorf("rule %q: %w", id, domain.ErrNotFound)
	}
	return rule, nil
}

// GetAll returns every rule ordered by priority then id.
func (r *RuleRegistry) GetAll() []domain.Rule {
	return r.filter(func(domain.Rule) bool { return true })
}

// GetByType returns the rules of type t.
func (r *RuleRegistry) GetByType(t domain.RuleType) []domain.Rule {
	return r.filter(func(rule domain.Rule) bool { return rule.Type == t })
}

// GetMandatory returns the mandatory rules.
func (r *RuleRegistry) GetMandatory() []domain.Rule {
	return r.filter(func(rule domain.Rule) bool { return rule.Mandatory })
}

// Reset restores the bootstrap rules and applies overrides atomically.
// Invalid override rules are skipped.
func (r *RuleRegistry) Reset(overrides domain.RuleOverrides) {
	rules := bootstrapRules()
	for _, rule := range overrides.Rules {
		if err := rule.Validate(); err != nil {
			logger.Warn("Skipping rule override: %v", err)
			continue
		}
		rules[rule.ID] = rule
	}
	for _, id := range overrides.Remove {
		delete(rules, id)
	}

	r.mu.Lock()
	r.rules = rules
	r.mu.Unlock()
	logger.Debug("Rule registry reset: %d rules", len(rules))
}

func (r *RuleRegistry) filter(keep func(domain.Rule) bool) []domain.Rule {
	r.mu.RLock()
	out := make([]domain.Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		if keep(rule) {
			out = append(out, rule)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out
}
