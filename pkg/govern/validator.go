package govern

import (
	"fmt"

	"bdr-ai/claimgate/pkg/claim"
	"bdr-ai/claimgate/pkg/policy"
)

// ValidatedInput is a claim input that has passed field-level governance
// validation. It can only be constructed by ValidateInput, so any component
// that accepts a *ValidatedInput is guaranteed never to see unvalidated data.
type ValidatedInput struct {
	input claim.Input
}

// Claim returns a copy of the validated claim input.
func (v *ValidatedInput) Claim() claim.Input { return v.input }

// ClaimID returns the validated claim's identifier.
func (v *ValidatedInput) ClaimID() string { return v.input.ClaimID }

// AdvisoryResult is the subset of an advisory suggestion the governance
// validator inspects. The advisory package's Suggestion satisfies it.
type AdvisoryResult interface {
	// SeverityCategory returns the suggested severity category label.
	SeverityCategory() string

	// ConfidenceScore returns the model's confidence in [0,1].
	ConfidenceScore() float64

	// AdvisoryTag returns the governance status tag, which must equal
	// the constant ADVISORY_ONLY marker.
	AdvisoryTag() string
}

// AdvisoryOnlyTag is the constant governance status every admissible
// suggestion must carry. A suggestion without it has been tampered with or
// produced by a model claiming decision authority it does not have.
const AdvisoryOnlyTag = "ADVISORY_ONLY"

// ValidateInput checks a raw claim input against the capability dictionary
// and boundary spec. It is a pure function: it either returns a
// ValidatedInput or a typed governance error, and never modifies or silently
// corrects the input.
func ValidateInput(input claim.Input, dict *policy.CapabilityDictionary, spec *policy.BoundarySpec) (*ValidatedInput, error) {
	// Every input field must be declared and allowed by the dictionary.
	for _, field := range []string{"claim_type", "damage_amount", "injury_involved", "risk_factor"} {
		fc, ok := dict.Field(field)
		if !ok || !fc.Allowed {
			return nil, &UnknownFieldError{Field: field}
		}
	}

	if fc, _ := dict.Field("claim_type"); !input.ClaimType.Valid() || !fc.PermitsValue(string(input.ClaimType)) {
		return nil, &OutOfRangeError{
			Field:  "claim_type",
			Value:  string(input.ClaimType),
			Reason: fmt.Sprintf("not in allowed values %v", fc.AllowedValues),
		}
	}

	if input.DamageAmount < 0 {
		return nil, &OutOfRangeError{
			Field:  "damage_amount",
			Value:  input.DamageAmount,
			Reason: "damage amount must be non-negative",
		}
	}
	if fc, _ := dict.Field("damage_amount"); !fc.PermitsNumber(input.DamageAmount) {
		return nil, &OutOfRangeError{
			Field:  "damage_amount",
			Value:  input.DamageAmount,
			Reason: rangeReason(fc),
		}
	}

	if fc, _ := dict.Field("risk_factor"); !input.RiskFactor.Valid() || !fc.PermitsValue(string(input.RiskFactor)) {
		return nil, &OutOfRangeError{
			Field:  "risk_factor",
			Value:  string(input.RiskFactor),
			Reason: fmt.Sprintf("not in allowed values %v", fc.AllowedValues),
		}
	}

	return &ValidatedInput{input: input}, nil
}

// GovernInput checks boundary-spec admissibility of a validated input before
// the advisory model runs: the claim type must admit at least one advisory
// category, otherwise no suggestion could ever pass governance and the claim
// is rejected up front.
func GovernInput(v *ValidatedInput, dict *policy.CapabilityDictionary, spec *policy.BoundarySpec) error {
	categories, ok := dict.AdmissibleCategories[string(v.input.ClaimType)]
	if !ok || len(categories) == 0 {
		return &BoundaryViolationError{
			ClaimType: string(v.input.ClaimType),
			Reason:    "claim type admits no advisory categories",
		}
	}
	if _, ok := spec.RiskWeights[string(v.input.RiskFactor)]; !ok {
		return &BoundaryViolationError{
			ClaimType: string(v.input.ClaimType),
			Reason:    fmt.Sprintf("boundary spec carries no weight for risk factor %q", v.input.RiskFactor),
		}
	}
	return nil
}

// ValidateSuggestion checks the advisory model's output against the
// capability dictionary and boundary spec before it may reach a human. This
// second validation pass defends against a misbehaving or misconfigured
// model; a violation here rejects the claim, it never downgrades to a
// default decision.
func ValidateSuggestion(v *ValidatedInput, result AdvisoryResult, dict *policy.CapabilityDictionary, spec *policy.BoundarySpec) error {
	if result.AdvisoryTag() != AdvisoryOnlyTag {
		return &BoundaryViolationError{
			ClaimType: string(v.input.ClaimType),
			Category:  result.SeverityCategory(),
			Reason:    fmt.Sprintf("governance status %q is not %q", result.AdvisoryTag(), AdvisoryOnlyTag),
		}
	}

	if c := result.ConfidenceScore(); c < 0 || c > 1 {
		return &BoundaryViolationError{
			ClaimType: string(v.input.ClaimType),
			Category:  result.SeverityCategory(),
			Reason:    fmt.Sprintf("confidence %v outside [0,1]", c),
		}
	}

	if !dict.CategoryAdmissible(v.input.ClaimType, result.SeverityCategory()) {
		return &BoundaryViolationError{
			ClaimType: string(v.input.ClaimType),
			Category:  result.SeverityCategory(),
			Reason: fmt.Sprintf("category %q is not admissible for claim type %q",
				result.SeverityCategory(), v.input.ClaimType),
		}
	}

	return nil
}

func rangeReason(fc policy.FieldCapability) string {
	switch {
	case fc.Min != nil && fc.Max != nil:
		return fmt.Sprintf("must be within [%v, %v]", *fc.Min, *fc.Max)
	case fc.Min != nil:
		return fmt.Sprintf("must be >= %v", *fc.Min)
	case fc.Max != nil:
		return fmt.Sprintf("must be <= %v", *fc.Max)
	default:
		return "value not permitted"
	}
}
