package domain

import "fmt"

// RuleType categorises how a rule is checked.
type RuleType string

// Available rule types.
const (
	RuleTypeKeywordPresence RuleType = "KEYWORD_PRESENCE"
	RuleTypeSignatureCheck  RuleType = "SIGNATURE_CHECK"
	RuleTypeDateValidation  RuleType = "DATE_VALIDATION"
	RuleTypeSemanticMatch   RuleType = "SEMANTIC_MATCH"
	RuleTypeCustomReasoning RuleType = "CUSTOM_REASONING"
)

// IsValid returns true if the rule type is recognised.
func (t RuleType) IsValid() bool {
	switch t {
	case RuleTypeKeywordPresence, RuleTypeSignatureCheck, RuleTypeDateValidation,
		RuleTypeSemanticMatch, RuleTypeCustomReasoning:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t RuleType) String() string {
	return string(t)
}

// Description returns a human-readable description of the rule type.
func (t RuleType) Description() string {
	switch t {
	case RuleTypeKeywordPresence:
		return "Keyword presence"
	case RuleTypeSignatureCheck:
		return "Signature check"
	case RuleTypeDateValidation:
		return "Date validation"
	case RuleTypeSemanticMatch:
		return "Semantic match"
	case RuleTypeCustomReasoning:
		return "Custom reasoning"
	default:
		return unknownDescription
	}
}

// AllRuleTypes returns all rule types.
func AllRuleTypes() []RuleType {
	return []RuleType{
		RuleTypeKeywordPresence,
		RuleTypeSignatureCheck,
		RuleTypeDateValidation,
		RuleTypeSemanticMatch,
		RuleTypeCustomReasoning,
	}
}

// Rule is a compliance rule checked during evaluation.
// Identity is ID; two rules with the same ID are the same rule.
type Rule struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Type        RuleType `json:"type" yaml:"type"`

	// Priority orders rules; lower runs earlier.
	Priority int `json:"priority" yaml:"priority"`

	// Weight is advisory and not applied numerically.
	Weight float64 `json:"weight" yaml:"weight"`

	Mandatory bool `json:"mandatory" yaml:"mandatory"`
}

// Validate checks that a rule can be registered.
func (r Rule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: rule id is required", ErrValidation)
	}
	if !r.Type.IsValid() {
		return fmt.Errorf("%w: rule %q has unknown type %q", ErrValidation, r.ID, r.Type)
	}
	return nil
}

// RuleOverrides adjusts the bootstrap rule set.
type RuleOverrides struct {
	// Rules are upserted by ID over the bootstrap set.
	Rules []Rule `yaml:"rules"`

	// Remove lists rule IDs to drop after upserts are applied.
	Remove []string `yaml:"remove"`
}

// DefaultRules returns the bootstrap rule set seeded into every registry.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:          "signature-check",
			Name:        "Signature Verification",
			Description: "Document must contain a signature block or digital signature confirmation",
			Type:        RuleTypeSignatureCheck,
			Priority:    1,
			Weight:      0.3,
			Mandatory:   true,
		},
		{
			ID:          "date-validation",
			Name:        "Date Validation",
			Description: "Document date must be present and within acceptable range (not future-dated)",
			Type:        RuleTypeDateValidation,
			Priority:    1,
			Weight:      0.2,
			Mandatory:   true,
		},
		{
			ID:          "approval-clause",
			Name:        "Approval Clause",
			Description: "Must contain explicit approval language such as 'approved by', 'authorized by', or 'confirmed by both parties'",
			Type:        RuleTypeKeywordPresence,
			Priority:    2,
			Weight:      0.25,
			Mandatory:   true,
		},
		{
			ID:          "party-identification",
			Name:        "Party Identification",
			Description: "Document must clearly identify all parties involved (names, company names, or official titles)",
			Type:        RuleTypeSemanticMatch,
			Priority:    2,
			Weight:      0.15,
			Mandatory:   false,
		},
		{
			ID:          "completeness-check",
			Name:        "Document Completeness",
			Description: "Document should not contain placeholders like [TO BE FILLED], [TBD], or blank fields in critical sections",
			Type:        RuleTypeCustomReasoning,
			Priority:    3,
			Weight:      0.1,
			Mandatory:   false,
		},
	}
}
