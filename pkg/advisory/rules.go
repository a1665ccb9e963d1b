package advisory

import (
	"context"
	"fmt"
	"math"

	"bdr-ai/claimgate/pkg/claim"
	"bdr-ai/claimgate/pkg/govern"
	"bdr-ai/claimgate/pkg/policy"
)

// BoundaryModel is the rule-table advisory model. It evaluates claims purely
// against the frozen decision boundary spec: a composite severity score is
// computed from the damage band, risk weight, and injury/liability
// multipliers, then classified by the severity thresholds.
//
// The model is deterministic and side-effect free, so identical inputs always
// yield identical suggestions.
type BoundaryModel struct {
	spec *policy.BoundarySpec
}

// NewBoundaryModel creates a rule-table model over the given boundary spec.
func NewBoundaryModel(spec *policy.BoundarySpec) *BoundaryModel {
	return &BoundaryModel{spec: spec}
}

// Name identifies the model implementation for audit payloads.
func (m *BoundaryModel) Name() string {
	return "boundary-rule-table/" + m.spec.Version
}

// Suggest produces a non-binding severity suggestion for the validated claim.
func (m *BoundaryModel) Suggest(ctx context.Context, input *govern.ValidatedInput) (*Suggestion, error) {
	select {
	case <-ctx.Done():
		return nil, &UnavailableError{Model: m.Name(), Cause: ctx.Err()}
	default:
	}

	c := input.Claim()

	score := m.spec.BasePoints(c.DamageAmount)
	score *= m.spec.RiskWeight(c.RiskFactor)
	if c.InjuryInvolved {
		score *= m.spec.InjuryMultiplier
	}
	if c.ClaimType == claim.TypeLiability && m.spec.LiabilityMultiplier > 0 {
		score *= m.spec.LiabilityMultiplier
	}

	category := m.classify(score)
	distribution := m.distribution(score, category)
	uncertainty := assessUncertainty(distribution)

	return &Suggestion{
		Category:         category,
		Confidence:       distribution[category],
		Score:            score,
		RuleSignals:      m.ruleSignals(c),
		Distribution:     distribution,
		Uncertainty:      uncertainty,
		GovernanceStatus: govern.AdvisoryOnlyTag,
	}, nil
}

// classify maps the composite score to a severity category using the frozen
// severity thresholds.
func (m *BoundaryModel) classify(score float64) Severity {
	switch {
	case score < m.spec.SeverityThresholds.Low:
		return SeverityLow
	case score < m.spec.SeverityThresholds.Medium:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

// distribution derives a deterministic probability mass over the severity
// categories. Confidence in the assigned category grows with the score's
// margin to the nearest severity threshold; the remainder is split between
// the neighboring categories, favoring the nearer one.
func (m *BoundaryModel) distribution(score float64, category Severity) map[Severity]float64 {
	th := m.spec.SeverityThresholds
	span := th.Medium - th.Low

	marginLow := math.Abs(score - th.Low)
	marginMedium := math.Abs(score - th.Medium)
	margin := math.Min(marginLow, marginMedium)

	normalized := math.Min(margin/span, 1.0)
	confidence := 0.5 + 0.49*normalized
	rest := 1.0 - confidence

	dist := map[Severity]float64{
		SeverityLow:    0,
		SeverityMedium: 0,
		SeverityHigh:   0,
	}
	dist[category] = confidence

	switch category {
	case SeverityLow:
		dist[SeverityMedium] = rest * 0.8
		dist[SeverityHigh] = rest * 0.2
	case SeverityHigh:
		dist[SeverityMedium] = rest * 0.8
		dist[SeverityLow] = rest * 0.2
	default:
		// Medium borders both; the nearer threshold gets the larger share.
		if marginLow <= marginMedium {
			dist[SeverityLow] = rest * 0.8
			dist[SeverityHigh] = rest * 0.2
		} else {
			dist[SeverityHigh] = rest * 0.8
			dist[SeverityLow] = rest * 0.2
		}
	}

	return dist
}

// ruleSignals generates the ordered, human-readable reasons for the
// suggestion: one signal per decision factor, in evaluation order.
func (m *BoundaryModel) ruleSignals(c claim.Input) []string {
	th := m.spec.DamageThresholds
	signals := make([]string, 0, 4)

	switch {
	case c.DamageAmount < th.Low:
		signals = append(signals, fmt.Sprintf("low damage (<$%.0f): $%.2f", th.Low, c.DamageAmount))
	case c.DamageAmount < th.Medium:
		signals = append(signals, fmt.Sprintf("medium damage ($%.0f-$%.0f): $%.2f", th.Low, th.Medium, c.DamageAmount))
	case c.DamageAmount < th.High:
		signals = append(signals, fmt.Sprintf("high damage ($%.0f-$%.0f): $%.2f", th.Medium, th.High, c.DamageAmount))
	default:
		signals = append(signals, fmt.Sprintf("very high damage (>=$%.0f): $%.2f", th.High, c.DamageAmount))
	}

	if c.InjuryInvolved {
		signals = append(signals, fmt.Sprintf("injury involved (multiplier %.1fx)", m.spec.InjuryMultiplier))
	} else {
		signals = append(signals, "no injury involved")
	}

	signals = append(signals, fmt.Sprintf("%s risk factor (weight %.1fx)", c.RiskFactor, m.spec.RiskWeight(c.RiskFactor)))

	if c.ClaimType == claim.TypeLiability && m.spec.LiabilityMultiplier > 0 {
		signals = append(signals, fmt.Sprintf("liability claim (multiplier %.1fx)", m.spec.LiabilityMultiplier))
	} else {
		signals = append(signals, fmt.Sprintf("claim type: %s", c.ClaimType))
	}

	return signals
}

// assessUncertainty computes the normalized entropy of the category
// distribution and classifies it into the three uncertainty levels.
func assessUncertainty(dist map[Severity]float64) Uncertainty {
	const epsilon = 1e-10

	var entropy float64
	for _, p := range dist {
		if p > 0 {
			entropy -= p * math.Log(p+epsilon)
		}
	}
	maxEntropy := math.Log(float64(len(dist)))
	normalized := entropy / maxEntropy

	var level UncertaintyLevel
	var interpretation string
	switch {
	case normalized < 0.3:
		level = UncertaintyLow
		interpretation = "model is confident in this suggestion"
	case normalized < 0.6:
		level = UncertaintyMedium
		interpretation = "moderate uncertainty; extra human scrutiny recommended"
	default:
		level = UncertaintyHigh
		interpretation = "model is uncertain; careful human review required"
	}

	return Uncertainty{
		Level:             level,
		Entropy:           entropy,
		NormalizedEntropy: normalized,
		Interpretation:    interpretation,
	}
}
