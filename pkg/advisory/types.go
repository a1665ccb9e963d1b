package advisory

import (
	"bdr-ai/claimgate/pkg/govern"
)

// Severity is the advisory severity category for a claim.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// Severities lists the severity categories in ascending order.
func Severities() []Severity {
	return []Severity{SeverityLow, SeverityMedium, SeverityHigh}
}

// UncertaintyLevel classifies how uncertain the model is about a suggestion.
type UncertaintyLevel string

const (
	UncertaintyLow    UncertaintyLevel = "Low"
	UncertaintyMedium UncertaintyLevel = "Medium"
	UncertaintyHigh   UncertaintyLevel = "High"
)

// Uncertainty is the entropy-based uncertainty assessment attached to every
// suggestion. NormalizedEntropy is the category distribution's entropy
// divided by the maximum possible entropy, so it always falls in [0,1].
type Uncertainty struct {
	Level             UncertaintyLevel `json:"level"`
	Entropy           float64          `json:"entropy"`
	NormalizedEntropy float64          `json:"normalized_entropy"`
	Interpretation    string           `json:"interpretation"`
}

// Suggestion is a non-binding advisory recommendation with full
// explainability. It is created by a Model, held transiently by the pipeline,
// and never persisted as final truth; only the human gate can turn its
// content into a decision.
//
// Suggestions carry no timestamp: identical validated inputs must produce
// identical suggestions so reproducibility audits can compare runs directly.
type Suggestion struct {
	// Category is the suggested severity level.
	Category Severity `json:"category"`

	// Confidence is the probability mass on the suggested category, in [0,1].
	Confidence float64 `json:"confidence"`

	// Score is the composite severity score the rule table computed, kept
	// for explainability.
	Score float64 `json:"score"`

	// RuleSignals are the ordered, human-readable reasons behind the
	// suggestion. The same plumbing carries rejection reasons, so a rejected
	// path is as explainable as an accepted one.
	RuleSignals []string `json:"rule_signals"`

	// Distribution is the probability mass over all severity categories.
	Distribution map[Severity]float64 `json:"distribution"`

	// Uncertainty is the entropy-based uncertainty assessment.
	Uncertainty Uncertainty `json:"uncertainty"`

	// GovernanceStatus is the constant ADVISORY_ONLY tag. The governance
	// validator rejects any suggestion where this has been overridden.
	GovernanceStatus string `json:"governance_status"`
}

// SeverityCategory implements govern.AdvisoryResult.
func (s *Suggestion) SeverityCategory() string { return string(s.Category) }

// ConfidenceScore implements govern.AdvisoryResult.
func (s *Suggestion) ConfidenceScore() float64 { return s.Confidence }

// AdvisoryTag implements govern.AdvisoryResult.
func (s *Suggestion) AdvisoryTag() string { return s.GovernanceStatus }

// compile-time check that Suggestion satisfies the governance contract.
var _ govern.AdvisoryResult = (*Suggestion)(nil)
