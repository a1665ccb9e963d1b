package gate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bdr-ai/claimgate/pkg/advisory"
	"bdr-ai/claimgate/pkg/claim"
	"bdr-ai/claimgate/pkg/govern"
)

// Decision is a finalized claim outcome. All fields are unexported and
// there is no exported constructor; the only way to obtain a Decision is
// through Gate.Confirm.
type Decision struct {
	claimID         string
	category        advisory.Severity
	confidence      float64
	decisionMakerID string
	rationale       string
	decidedAt       time.Time
}

// ClaimID returns the claim the decision finalizes.
func (d *Decision) ClaimID() string { return d.claimID }

// Category returns the confirmed severity category.
func (d *Decision) Category() advisory.Severity { return d.category }

// Confidence returns the advisory confidence the decision was based on.
func (d *Decision) Confidence() float64 { return d.confidence }

// DecisionMakerID identifies the human who confirmed the decision.
func (d *Decision) DecisionMakerID() string { return d.decisionMakerID }

// Rationale returns the reviewer's stated reason.
func (d *Decision) Rationale() string { return d.rationale }

// DecidedAt returns when the decision was confirmed, UTC.
func (d *Decision) DecidedAt() time.Time { return d.decidedAt }

// MarshalJSON serializes the decision for audit payloads.
func (d *Decision) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ClaimID         string            `json:"claim_id"`
		Category        advisory.Severity `json:"category"`
		Confidence      float64           `json:"confidence"`
		DecisionMakerID string            `json:"decision_maker_id"`
		Rationale       string            `json:"rationale"`
		DecidedAt       time.Time         `json:"decided_at"`
	}{
		ClaimID:         d.claimID,
		Category:        d.category,
		Confidence:      d.confidence,
		DecisionMakerID: d.decisionMakerID,
		Rationale:       d.rationale,
		DecidedAt:       d.decidedAt,
	})
}

// Rejection is a terminal declined outcome. Unlike an error, a rejection is
// a legitimate end state for a claim; it always carries the reviewer's
// rationale.
type Rejection struct {
	ClaimID         string    `json:"claim_id"`
	Reason          string    `json:"reason"`
	DecisionMakerID string    `json:"decision_maker_id"`
	RejectedAt      time.Time `json:"rejected_at"`
}

// MissingRationaleError indicates a reviewer submitted a confirmation
// without stating why. Outcomes without rationale are not recordable,
// whether the suggestion was accepted or declined.
type MissingRationaleError struct {
	ClaimID string
}

// Error returns the error message.
func (e *MissingRationaleError) Error() string {
	return fmt.Sprintf("confirmation of claim %q requires a rationale", e.ClaimID)
}

// Gate turns a human confirmation into a decision or a rejection.
type Gate struct {
	logger *slog.Logger
}

// NewGate creates a human confirmation gate.
func NewGate() *Gate {
	return &Gate{
		logger: slog.Default().With("component", "gate"),
	}
}

// Confirm applies a human confirmation to a governed suggestion. Exactly one
// of the decision and the rejection is non-nil on success.
//
// A confirmed review finalizes the suggestion's category; a declined review
// yields a Rejection. Both require a non-empty rationale: a review without
// one returns MissingRationaleError and produces no outcome.
func (g *Gate) Confirm(input *govern.ValidatedInput, suggestion *advisory.Suggestion, confirmation claim.HumanConfirmation) (*Decision, *Rejection, error) {
	if input == nil || suggestion == nil {
		return nil, nil, fmt.Errorf("confirmation requires a validated input and a suggestion")
	}
	if strings.TrimSpace(confirmation.DecisionMakerID) == "" {
		return nil, nil, fmt.Errorf("confirmation for claim %q has no decision maker id", input.ClaimID())
	}
	if !confirmation.HasRationale() {
		return nil, nil, &MissingRationaleError{ClaimID: input.ClaimID()}
	}

	decidedAt := confirmation.Timestamp
	if decidedAt.IsZero() {
		decidedAt = time.Now()
	}
	decidedAt = decidedAt.UTC()

	if !confirmation.Confirmed {
		g.logger.Info("suggestion rejected by reviewer",
			"claim_id", input.ClaimID(),
			"suggested_category", suggestion.Category,
			"decision_maker_id", confirmation.DecisionMakerID,
		)

		return nil, &Rejection{
			ClaimID:         input.ClaimID(),
			Reason:          strings.TrimSpace(confirmation.OverrideReason),
			DecisionMakerID: confirmation.DecisionMakerID,
			RejectedAt:      decidedAt,
		}, nil
	}

	g.logger.Info("suggestion confirmed by reviewer",
		"claim_id", input.ClaimID(),
		"category", suggestion.Category,
		"decision_maker_id", confirmation.DecisionMakerID,
	)

	return &Decision{
		claimID:         input.ClaimID(),
		category:        suggestion.Category,
		confidence:      suggestion.Confidence,
		decisionMakerID: confirmation.DecisionMakerID,
		rationale:       strings.TrimSpace(confirmation.OverrideReason),
		decidedAt:       decidedAt,
	}, nil, nil
}
