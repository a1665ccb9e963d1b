package claim

import (
	"fmt"
	"strings"
	"time"
)

// Type is the category of insurance claim being evaluated.
type Type string

const (
	TypeAuto      Type = "Auto"
	TypeProperty  Type = "Property"
	TypeHealth    Type = "Health"
	TypeLiability Type = "Liability"
)

// Types lists all valid claim types in canonical order.
func Types() []Type {
	return []Type{TypeAuto, TypeProperty, TypeHealth, TypeLiability}
}

// Valid reports whether the claim type is one of the known values.
func (t Type) Valid() bool {
	switch t {
	case TypeAuto, TypeProperty, TypeHealth, TypeLiability:
		return true
	}
	return false
}

// String returns the claim type as a string.
func (t Type) String() string {
	return string(t)
}

// ParseType parses a claim type from a string. Matching is case-insensitive.
func ParseType(s string) (Type, error) {
	for _, t := range Types() {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown claim type %q (valid: Auto, Property, Health, Liability)", s)
}

// RiskFactor is the declared risk level of a claim.
type RiskFactor string

const (
	RiskLow    RiskFactor = "low"
	RiskMedium RiskFactor = "medium"
	RiskHigh   RiskFactor = "high"
)

// RiskFactors lists all valid risk factors in ascending order.
func RiskFactors() []RiskFactor {
	return []RiskFactor{RiskLow, RiskMedium, RiskHigh}
}

// Valid reports whether the risk factor is one of the known values.
func (r RiskFactor) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// String returns the risk factor as a string.
func (r RiskFactor) String() string {
	return string(r)
}

// ParseRiskFactor parses a risk factor from a string. Matching is
// case-insensitive.
func ParseRiskFactor(s string) (RiskFactor, error) {
	for _, r := range RiskFactors() {
		if strings.EqualFold(s, string(r)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown risk factor %q (valid: low, medium, high)", s)
}

// Input is a single claim submitted for evaluation. It is constructed once
// per pipeline invocation and treated as immutable thereafter.
type Input struct {
	// ClaimID uniquely identifies the claim. If empty at intake, the engine
	// assigns a UUID before the first audit record is written.
	ClaimID string `json:"claim_id" yaml:"claim_id"`

	// ClaimType is the claim category (Auto, Property, Health, Liability).
	ClaimType Type `json:"claim_type" yaml:"claim_type"`

	// DamageAmount is the claimed damage in USD. Must be non-negative.
	DamageAmount float64 `json:"damage_amount" yaml:"damage_amount"`

	// InjuryInvolved indicates whether the claim involves personal injury.
	InjuryInvolved bool `json:"injury_involved" yaml:"injury_involved"`

	// RiskFactor is the declared risk level (low, medium, high).
	RiskFactor RiskFactor `json:"risk_factor" yaml:"risk_factor"`
}

// HumanConfirmation records the mandatory human review of an advisory
// suggestion. It is created exactly once per claim evaluation and is
// immutable after creation.
type HumanConfirmation struct {
	// Confirmed is true if the reviewer accepted the advisory suggestion,
	// false if they rejected it. Both outcomes are recorded.
	Confirmed bool `json:"confirmed"`

	// OverrideReason is the reviewer's rationale. It is mandatory whether
	// the suggestion is accepted or declined; an empty or whitespace-only
	// reason fails the human gate.
	OverrideReason string `json:"override_reason"`

	// DecisionMakerID identifies the human reviewer.
	DecisionMakerID string `json:"decision_maker_id"`

	// Timestamp is when the confirmation was given.
	Timestamp time.Time `json:"timestamp"`
}

// HasRationale reports whether the override reason is non-empty after
// trimming whitespace. The human gate refuses confirmations without one.
func (c *HumanConfirmation) HasRationale() bool {
	return strings.TrimSpace(c.OverrideReason) != ""
}
