package stage

import "fmt"

// RuleType is the closed set of input rule kinds. Dispatch over it is
// exhaustive in the resolver; adding a value here is a compile-visible
// decision point.
type RuleType string

const (
	// RuleDocument sources a finished rendered document. Document rules
	// resolve exclusively against the rendered-resource catalog.
	RuleDocument RuleType = "document"
	// RuleFeedback sources user feedback from the previous iteration.
	RuleFeedback RuleType = "feedback"
	// RuleHeaderContext sources raw model output used as header context.
	RuleHeaderContext RuleType = "header_context"
	// RuleContribution sources raw model output from a prior stage.
	RuleContribution RuleType = "contribution"
)

// Valid reports whether t is a known rule type.
func (t RuleType) Valid() bool {
	switch t {
	case RuleDocument, RuleFeedback, RuleHeaderContext, RuleContribution:
		return true
	}
	return false
}

// InputRule declares one source artifact a stage needs. Declarative; never
// mutated at runtime.
type InputRule struct {
	Type          RuleType `json:"type"`
	StageSlug     string   `json:"stage_slug"`
	DocumentKey   *string  `json:"document_key,omitempty"`
	Required      bool     `json:"required"`
	Multiple      bool     `json:"multiple"`
	SectionHeader *string  `json:"section_header,omitempty"`
}

// Validate checks structural validity of a rule.
func (r InputRule) Validate() error {
	if !r.Type.Valid() {
		return fmt.Errorf("unknown input rule type %q", r.Type)
	}
	if r.StageSlug == "" {
		return fmt.Errorf("input rule of type %q has no source stage slug", r.Type)
	}
	return nil
}
