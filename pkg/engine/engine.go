package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bdr-ai/claimgate/pkg/advisory"
	"bdr-ai/claimgate/pkg/claim"
	"bdr-ai/claimgate/pkg/gate"
	"bdr-ai/claimgate/pkg/govern"
	"bdr-ai/claimgate/pkg/ledger"
	"bdr-ai/claimgate/pkg/policy"
	"bdr-ai/claimgate/pkg/telemetry/metrics"
)

// Status is the terminal status of an evaluated claim.
type Status string

const (
	StatusFinalized Status = "FINALIZED"
	StatusRejected  Status = "REJECTED"
)

// Outcome is the terminal result of evaluating a claim. Exactly one of
// Decision and Rejection is set, depending on Status. Suggestion carries
// the advisory suggestion the human reviewed, when the pipeline got that
// far.
type Outcome struct {
	ClaimID    string
	Status     Status
	Decision   *gate.Decision
	Rejection  *gate.Rejection
	Suggestion *advisory.Suggestion
}

// Confirmer supplies the human confirmation for a suggestion. It is the
// seam to whatever review surface is in front of the reviewer (CLI flags,
// a queue, a web UI).
type Confirmer interface {
	Confirm(ctx context.Context, input *govern.ValidatedInput, suggestion *advisory.Suggestion) (claim.HumanConfirmation, error)
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(ctx context.Context, input *govern.ValidatedInput, suggestion *advisory.Suggestion) (claim.HumanConfirmation, error)

// Confirm calls f.
func (f ConfirmerFunc) Confirm(ctx context.Context, input *govern.ValidatedInput, suggestion *advisory.Suggestion) (claim.HumanConfirmation, error) {
	return f(ctx, input, suggestion)
}

// Config contains timeouts for the engine's external calls.
type Config struct {
	// AdvisoryTimeout bounds a single advisory model evaluation.
	// Default: 5 seconds.
	AdvisoryTimeout time.Duration

	// AppendTimeout bounds a single ledger append.
	// Default: 5 seconds.
	AppendTimeout time.Duration
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		AdvisoryTimeout: 5 * time.Second,
		AppendTimeout:   5 * time.Second,
	}
}

// Engine drives claims through the governed pipeline.
type Engine struct {
	dict      *policy.CapabilityDictionary
	spec      *policy.BoundarySpec
	model     advisory.Model
	ledger    ledger.Ledger
	gate      *gate.Gate
	confirmer Confirmer
	metrics   *metrics.PipelineMetrics
	config    *Config
	logger    *slog.Logger
}

// New creates a decision engine. metrics may be nil to disable recording.
func New(dict *policy.CapabilityDictionary, spec *policy.BoundarySpec, model advisory.Model, led ledger.Ledger, confirmer Confirmer, m *metrics.PipelineMetrics, config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	return &Engine{
		dict:      dict,
		spec:      spec,
		model:     model,
		ledger:    led,
		gate:      gate.NewGate(),
		confirmer: confirmer,
		metrics:   m,
		config:    config,
		logger:    slog.Default().With("component", "engine"),
	}
}

// Evaluate runs a claim through the full pipeline and returns its terminal
// outcome.
//
// Governance, advisory, and rationale failures terminate the claim with a
// REJECTED audit record carrying a system rationale, and the typed error is
// returned alongside a nil outcome. A ledger failure is returned as
// *ledger.UnavailableError and aborts processing immediately; no action is
// ever taken without its audit record.
func (e *Engine) Evaluate(ctx context.Context, input claim.Input) (*Outcome, error) {
	if input.ClaimID == "" {
		input.ClaimID = uuid.NewString()
	}
	claimID := input.ClaimID
	logger := e.logger.With("claim_id", claimID)

	// Receipt is recorded before any processing so even a malformed claim
	// leaves a trace.
	if err := e.append(ctx, claimID, ledger.StageReceived, input); err != nil {
		return nil, err
	}
	logger.Info("claim received", "claim_type", input.ClaimType)

	validated, err := govern.ValidateInput(input, e.dict, e.spec)
	if err != nil {
		e.recordGovernanceRejection(err)
		return nil, e.systemReject(ctx, claimID, "input validation failed: "+err.Error(), err)
	}
	if err := e.append(ctx, claimID, ledger.StageValidated, input); err != nil {
		return nil, err
	}

	if err := govern.GovernInput(validated, e.dict, e.spec); err != nil {
		e.recordGovernanceRejection(err)
		return nil, e.systemReject(ctx, claimID, "governance check failed: "+err.Error(), err)
	}
	if err := e.append(ctx, claimID, ledger.StageGoverned, map[string]string{
		"dictionary_version": e.dict.Version,
		"boundary_version":   e.spec.Version,
	}); err != nil {
		return nil, err
	}

	suggestion, err := e.suggest(ctx, validated)
	if err != nil {
		return nil, e.systemReject(ctx, claimID, "advisory model unavailable: "+err.Error(), err)
	}

	if err := govern.ValidateSuggestion(validated, suggestion, e.dict, e.spec); err != nil {
		e.recordGovernanceRejection(err)
		return nil, e.systemReject(ctx, claimID, "suggestion failed governance: "+err.Error(), err)
	}
	if err := e.append(ctx, claimID, ledger.StageAdvised, suggestion); err != nil {
		return nil, err
	}
	logger.Info("advisory suggestion recorded",
		"category", suggestion.Category,
		"confidence", suggestion.Confidence,
		"uncertainty", suggestion.Uncertainty.Level,
	)

	confirmation, err := e.confirmer.Confirm(ctx, validated, suggestion)
	if err != nil {
		return nil, e.systemReject(ctx, claimID, "human confirmation unavailable: "+err.Error(), err)
	}

	decision, rejection, err := e.gate.Confirm(validated, suggestion, confirmation)
	if err != nil {
		var missing *gate.MissingRationaleError
		if errors.As(err, &missing) {
			e.recordGovernanceRejection(err)
		}
		return nil, e.systemReject(ctx, claimID, "confirmation not recordable: "+err.Error(), err)
	}

	if err := e.append(ctx, claimID, ledger.StageHumanConfirmed, confirmation); err != nil {
		return nil, err
	}

	if rejection != nil {
		if err := e.append(ctx, claimID, ledger.StageRejected, rejection); err != nil {
			return nil, err
		}
		e.recordOutcome(input, "rejected")
		logger.Info("claim rejected by reviewer", "reason", rejection.Reason)

		return &Outcome{
			ClaimID:    claimID,
			Status:     StatusRejected,
			Rejection:  rejection,
			Suggestion: suggestion,
		}, nil
	}

	if err := e.append(ctx, claimID, ledger.StageFinalized, decision); err != nil {
		return nil, err
	}
	e.recordOutcome(input, "finalized")
	logger.Info("claim finalized",
		"category", decision.Category(),
		"decision_maker_id", decision.DecisionMakerID(),
	)

	return &Outcome{
		ClaimID:    claimID,
		Status:     StatusFinalized,
		Decision:   decision,
		Suggestion: suggestion,
	}, nil
}

// suggest runs the advisory model under the configured timeout.
func (e *Engine) suggest(ctx context.Context, validated *govern.ValidatedInput) (*advisory.Suggestion, error) {
	advisoryCtx, cancel := context.WithTimeout(ctx, e.config.AdvisoryTimeout)
	defer cancel()

	start := time.Now()
	suggestion, err := e.model.Suggest(advisoryCtx, validated)
	if e.metrics != nil {
		e.metrics.RecordAdvisoryDuration(time.Since(start))
	}
	return suggestion, err
}

// append writes one audit record under the configured timeout.
func (e *Engine) append(ctx context.Context, claimID string, stage ledger.Stage, payload any) error {
	appendCtx, cancel := context.WithTimeout(ctx, e.config.AppendTimeout)
	defer cancel()

	start := time.Now()
	_, err := e.ledger.Append(appendCtx, claimID, stage, payload)
	if e.metrics != nil {
		e.metrics.RecordLedgerAppendDuration(time.Since(start))
	}
	if err != nil {
		e.logger.Error("ledger append failed",
			"claim_id", claimID,
			"stage", stage,
			"error", err,
		)
		return err
	}
	if e.metrics != nil {
		e.metrics.RecordStageTransition(string(stage))
	}
	return nil
}

// systemReject terminates a claim with a REJECTED record carrying a system
// rationale, then returns the causing error. If even the rejection record
// cannot be written, the ledger error takes precedence.
func (e *Engine) systemReject(ctx context.Context, claimID, reason string, cause error) error {
	payload := map[string]string{
		"reason": reason,
		"source": "system",
	}
	if err := e.append(ctx, claimID, ledger.StageRejected, payload); err != nil {
		return err
	}
	e.logger.Info("claim rejected by system", "claim_id", claimID, "reason", reason)
	return cause
}

// recordGovernanceRejection classifies a governance failure for metrics.
func (e *Engine) recordGovernanceRejection(err error) {
	if e.metrics == nil {
		return
	}

	var unknownField *govern.UnknownFieldError
	var outOfRange *govern.OutOfRangeError
	var boundary *govern.BoundaryViolationError
	var missing *gate.MissingRationaleError

	switch {
	case errors.As(err, &unknownField):
		e.metrics.RecordGovernanceRejection("unknown_field")
	case errors.As(err, &outOfRange):
		e.metrics.RecordGovernanceRejection("out_of_range")
	case errors.As(err, &boundary):
		e.metrics.RecordGovernanceRejection("boundary_violation")
	case errors.As(err, &missing):
		e.metrics.RecordGovernanceRejection("missing_rationale")
	default:
		e.metrics.RecordGovernanceRejection("other")
	}
}

// recordOutcome records a terminal outcome for metrics.
func (e *Engine) recordOutcome(input claim.Input, outcome string) {
	if e.metrics == nil {
		return
	}
	e.metrics.RecordOutcome(string(input.ClaimType), outcome)
}
