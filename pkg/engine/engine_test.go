package engine

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"bdr-ai/claimgate/pkg/advisory"
	"bdr-ai/claimgate/pkg/claim"
	"bdr-ai/claimgate/pkg/gate"
	"bdr-ai/claimgate/pkg/govern"
	"bdr-ai/claimgate/pkg/ledger"
	"bdr-ai/claimgate/pkg/policy"
)

// countingModel wraps the rule-table model and counts invocations.
type countingModel struct {
	inner advisory.Model
	calls int
}

func (m *countingModel) Suggest(ctx context.Context, input *govern.ValidatedInput) (*advisory.Suggestion, error) {
	m.calls++
	return m.inner.Suggest(ctx, input)
}

func (m *countingModel) Name() string { return m.inner.Name() }

// failingLedger always refuses appends.
type failingLedger struct{}

func (failingLedger) Append(ctx context.Context, claimID string, stage ledger.Stage, payload any) (*ledger.Record, error) {
	return nil, ledger.NewUnavailableError("test", "append", fmt.Errorf("disk gone"))
}
func (failingLedger) ReadChain(ctx context.Context, claimID string) ([]*ledger.Record, error) {
	return nil, nil
}
func (failingLedger) ReadAll(ctx context.Context) ([]*ledger.Record, error) { return nil, nil }
func (failingLedger) Close() error                                          { return nil }

func confirmAs(confirmed bool, reason, reviewer string) Confirmer {
	return ConfirmerFunc(func(ctx context.Context, input *govern.ValidatedInput, suggestion *advisory.Suggestion) (claim.HumanConfirmation, error) {
		return claim.HumanConfirmation{
			Confirmed:       confirmed,
			OverrideReason:  reason,
			DecisionMakerID: reviewer,
		}, nil
	})
}

type testEngine struct {
	engine *Engine
	ledger *ledger.MemoryLedger
	model  *countingModel
}

func newTestEngine(t *testing.T, confirmer Confirmer) *testEngine {
	t.Helper()

	spec := policy.DefaultBoundarySpec()
	model := &countingModel{inner: advisory.NewBoundaryModel(spec)}
	led := ledger.NewMemoryLedger()
	t.Cleanup(func() { led.Close() })

	return &testEngine{
		engine: New(policy.DefaultDictionary(), spec, model, led, confirmer, nil, nil),
		ledger: led,
		model:  model,
	}
}

func sampleClaim() claim.Input {
	return claim.Input{
		ClaimID:        "claim-1",
		ClaimType:      claim.TypeAuto,
		DamageAmount:   15000.0,
		InjuryInvolved: true,
		RiskFactor:     claim.RiskMedium,
	}
}

func chainStages(t *testing.T, l *ledger.MemoryLedger, claimID string) []ledger.Stage {
	t.Helper()
	chain, err := l.ReadChain(context.Background(), claimID)
	if err != nil {
		t.Fatalf("ReadChain() failed: %v", err)
	}
	if err := ledger.VerifyChain(chain); err != nil {
		t.Fatalf("VerifyChain() failed: %v", err)
	}
	stages := make([]ledger.Stage, len(chain))
	for i, r := range chain {
		stages[i] = r.Stage
	}
	return stages
}

func TestEvaluateFinalizes(t *testing.T) {
	te := newTestEngine(t, confirmAs(true, "matches prior claim pattern", "reviewer-7"))

	outcome, err := te.engine.Evaluate(context.Background(), sampleClaim())
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if outcome.Status != StatusFinalized {
		t.Fatalf("status = %v, want FINALIZED", outcome.Status)
	}
	if outcome.Decision == nil {
		t.Fatal("finalized outcome should carry a decision")
	}
	if outcome.Decision.Category() != advisory.SeverityHigh {
		t.Errorf("category = %v, want High", outcome.Decision.Category())
	}
	if outcome.Decision.DecisionMakerID() != "reviewer-7" {
		t.Errorf("decision maker = %q", outcome.Decision.DecisionMakerID())
	}

	want := []ledger.Stage{
		ledger.StageReceived, ledger.StageValidated, ledger.StageGoverned,
		ledger.StageAdvised, ledger.StageHumanConfirmed, ledger.StageFinalized,
	}
	got := chainStages(t, te.ledger, "claim-1")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("chain stages = %v, want %v", got, want)
	}
}

func TestEvaluateReviewerRejection(t *testing.T) {
	te := newTestEngine(t, confirmAs(false, "damage estimate disputed", "reviewer-7"))

	outcome, err := te.engine.Evaluate(context.Background(), sampleClaim())
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if outcome.Status != StatusRejected {
		t.Fatalf("status = %v, want REJECTED", outcome.Status)
	}
	if outcome.Rejection == nil || outcome.Rejection.Reason != "damage estimate disputed" {
		t.Errorf("rejection = %+v", outcome.Rejection)
	}
	if outcome.Decision != nil {
		t.Error("rejected outcome should not carry a decision")
	}

	want := []ledger.Stage{
		ledger.StageReceived, ledger.StageValidated, ledger.StageGoverned,
		ledger.StageAdvised, ledger.StageHumanConfirmed, ledger.StageRejected,
	}
	got := chainStages(t, te.ledger, "claim-1")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("chain stages = %v, want %v", got, want)
	}
}

func TestEvaluateRejectionWithoutRationale(t *testing.T) {
	te := newTestEngine(t, confirmAs(false, "", "reviewer-7"))

	outcome, err := te.engine.Evaluate(context.Background(), sampleClaim())
	if outcome != nil {
		t.Fatal("outcome should be nil when rationale is missing")
	}
	var missing *gate.MissingRationaleError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingRationaleError, got %v", err)
	}

	// The claim is terminated with a system rejection, never finalized.
	stages := chainStages(t, te.ledger, "claim-1")
	if stages[len(stages)-1] != ledger.StageRejected {
		t.Errorf("chain should end in REJECTED, got %v", stages)
	}
	for _, s := range stages {
		if s == ledger.StageFinalized {
			t.Error("claim must not be finalized without a recordable confirmation")
		}
	}
}

func TestEvaluateNegativeDamageRejectedBeforeModel(t *testing.T) {
	te := newTestEngine(t, confirmAs(true, "matches prior claim pattern", "reviewer-7"))

	input := sampleClaim()
	input.DamageAmount = -5.0

	_, err := te.engine.Evaluate(context.Background(), input)
	var outOfRange *govern.OutOfRangeError
	if !errors.As(err, &outOfRange) {
		t.Fatalf("expected OutOfRangeError, got %v", err)
	}
	if te.model.calls != 0 {
		t.Errorf("model invoked %d times for invalid input, want 0", te.model.calls)
	}

	want := []ledger.Stage{ledger.StageReceived, ledger.StageRejected}
	got := chainStages(t, te.ledger, "claim-1")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("chain stages = %v, want %v", got, want)
	}
}

func TestEvaluateUnknownFieldRejectedBeforeModel(t *testing.T) {
	dict := policy.DefaultDictionary()
	delete(dict.Fields, "risk_factor")

	spec := policy.DefaultBoundarySpec()
	model := &countingModel{inner: advisory.NewBoundaryModel(spec)}
	led := ledger.NewMemoryLedger()
	defer led.Close()

	engine := New(dict, spec, model, led, confirmAs(true, "matches prior claim pattern", "reviewer-7"), nil, nil)

	_, err := engine.Evaluate(context.Background(), sampleClaim())
	var unknown *govern.UnknownFieldError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownFieldError, got %v", err)
	}
	if model.calls != 0 {
		t.Errorf("model invoked %d times, want 0", model.calls)
	}
}

func TestEvaluateLedgerUnavailableIsFatal(t *testing.T) {
	spec := policy.DefaultBoundarySpec()
	model := &countingModel{inner: advisory.NewBoundaryModel(spec)}

	engine := New(policy.DefaultDictionary(), spec, model, failingLedger{}, confirmAs(true, "matches prior claim pattern", "reviewer-7"), nil, nil)

	_, err := engine.Evaluate(context.Background(), sampleClaim())
	var unavailable *ledger.UnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected ledger UnavailableError, got %v", err)
	}
	if model.calls != 0 {
		t.Errorf("no processing should happen when receipt cannot be audited, model calls = %d", model.calls)
	}
}

func TestEvaluateAssignsClaimID(t *testing.T) {
	te := newTestEngine(t, confirmAs(true, "matches prior claim pattern", "reviewer-7"))

	input := sampleClaim()
	input.ClaimID = ""

	outcome, err := te.engine.Evaluate(context.Background(), input)
	if err != nil {
		t.Fatalf("Evaluate() failed: %v", err)
	}
	if outcome.ClaimID == "" {
		t.Fatal("engine should assign a claim id")
	}

	stages := chainStages(t, te.ledger, outcome.ClaimID)
	if len(stages) != 6 {
		t.Errorf("chain length = %d, want 6", len(stages))
	}
}

func TestEvaluateDeterministicSuggestions(t *testing.T) {
	te := newTestEngine(t, confirmAs(true, "matches prior claim pattern", "reviewer-7"))
	ctx := context.Background()

	first, err := te.engine.Evaluate(ctx, sampleClaim())
	if err != nil {
		t.Fatalf("first Evaluate() failed: %v", err)
	}

	second := sampleClaim()
	second.ClaimID = "claim-2"
	again, err := te.engine.Evaluate(ctx, second)
	if err != nil {
		t.Fatalf("second Evaluate() failed: %v", err)
	}

	if !reflect.DeepEqual(first.Suggestion, again.Suggestion) {
		t.Errorf("identical claim data produced different suggestions:\n%+v\n%+v",
			first.Suggestion, again.Suggestion)
	}
}

func TestEvaluateConfirmerFailure(t *testing.T) {
	confirmer := ConfirmerFunc(func(ctx context.Context, input *govern.ValidatedInput, suggestion *advisory.Suggestion) (claim.HumanConfirmation, error) {
		return claim.HumanConfirmation{}, fmt.Errorf("review queue offline")
	})
	te := newTestEngine(t, confirmer)

	_, err := te.engine.Evaluate(context.Background(), sampleClaim())
	if err == nil {
		t.Fatal("expected error when confirmer fails")
	}

	stages := chainStages(t, te.ledger, "claim-1")
	if stages[len(stages)-1] != ledger.StageRejected {
		t.Errorf("chain should end in REJECTED, got %v", stages)
	}
}
