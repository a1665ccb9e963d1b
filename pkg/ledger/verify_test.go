package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func buildChain(t *testing.T, l *MemoryLedger, claimID string, stages []Stage) {
	t.Helper()
	ctx := context.Background()
	for _, stage := range stages {
		if _, err := l.Append(ctx, claimID, stage, map[string]string{"stage": string(stage)}); err != nil {
			t.Fatalf("Append(%s) failed: %v", stage, err)
		}
	}
}

// tamper overwrites a stored record's payload in place, bypassing the
// append-only contract, to set up corruption detection scenarios.
func (l *MemoryLedger) tamper(claimID string, sequence uint64, payload []byte) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, r := range l.chains[claimID] {
		if r.Sequence == sequence {
			r.Payload = payload
			return true
		}
	}
	return false
}

func fullPipeline() []Stage {
	return []Stage{
		StageReceived, StageValidated, StageGoverned,
		StageAdvised, StageHumanConfirmed, StageFinalized,
	}
}

func TestVerifyChainIntact(t *testing.T) {
	l := NewMemoryLedger()
	defer l.Close()

	buildChain(t, l, "claim-1", fullPipeline())

	chain, err := l.ReadChain(context.Background(), "claim-1")
	if err != nil {
		t.Fatalf("ReadChain() failed: %v", err)
	}
	if err := VerifyChain(chain); err != nil {
		t.Errorf("VerifyChain() on intact chain failed: %v", err)
	}
}

func TestVerifyChainEarlyRejection(t *testing.T) {
	l := NewMemoryLedger()
	defer l.Close()

	// Governance failure right after intake terminates the chain.
	buildChain(t, l, "claim-1", []Stage{StageReceived, StageRejected})

	chain, err := l.ReadChain(context.Background(), "claim-1")
	if err != nil {
		t.Fatalf("ReadChain() failed: %v", err)
	}
	if err := VerifyChain(chain); err != nil {
		t.Errorf("VerifyChain() on rejected chain failed: %v", err)
	}
}

func TestVerifyChainInterleavedClaims(t *testing.T) {
	l := NewMemoryLedger()
	defer l.Close()
	ctx := context.Background()

	// Concurrent claims interleave on the global sequence; each chain's
	// sequences are increasing but not contiguous.
	stages := []Stage{StageReceived, StageValidated, StageGoverned}
	for _, stage := range stages {
		for _, claimID := range []string{"claim-a", "claim-b"} {
			if _, err := l.Append(ctx, claimID, stage, nil); err != nil {
				t.Fatalf("Append(%s, %s) failed: %v", claimID, stage, err)
			}
		}
	}

	for _, claimID := range []string{"claim-a", "claim-b"} {
		chain, err := l.ReadChain(ctx, claimID)
		if err != nil {
			t.Fatalf("ReadChain(%s) failed: %v", claimID, err)
		}
		if err := VerifyChain(chain); err != nil {
			t.Errorf("VerifyChain(%s) failed: %v", claimID, err)
		}
	}
	if err := VerifyLedger(ctx, l); err != nil {
		t.Errorf("VerifyLedger() on interleaved ledger failed: %v", err)
	}
}

func TestVerifyChainDetectsTamperedPayload(t *testing.T) {
	l := NewMemoryLedger()
	defer l.Close()

	buildChain(t, l, "claim-1", fullPipeline())

	if !l.tamper("claim-1", 3, json.RawMessage(`{"stage":"forged"}`)) {
		t.Fatal("tamper should find record 3")
	}

	chain, err := l.ReadChain(context.Background(), "claim-1")
	if err != nil {
		t.Fatalf("ReadChain() failed: %v", err)
	}

	var corruption *CorruptionError
	err = VerifyChain(chain)
	if !errors.As(err, &corruption) {
		t.Fatalf("expected CorruptionError, got %v", err)
	}
	if corruption.Sequence != 3 {
		t.Errorf("corruption reported at sequence %d, want 3", corruption.Sequence)
	}
}

func TestVerifyChainDetectsDeletedRecord(t *testing.T) {
	l := NewMemoryLedger()
	defer l.Close()

	buildChain(t, l, "claim-1", fullPipeline())

	chain, err := l.ReadChain(context.Background(), "claim-1")
	if err != nil {
		t.Fatalf("ReadChain() failed: %v", err)
	}

	// Drop the middle record to simulate out-of-band deletion.
	truncated := append(chain[:2:2], chain[3:]...)

	var corruption *CorruptionError
	if !errors.As(VerifyChain(truncated), &corruption) {
		t.Fatal("expected CorruptionError for chain with a deleted record")
	}
}

func TestVerifyChainDetectsStageOutOfOrder(t *testing.T) {
	records := []*Record{
		{Sequence: 1, ClaimID: "claim-1", Stage: StageReceived, Payload: json.RawMessage("null")},
		{Sequence: 2, ClaimID: "claim-1", Stage: StageAdvised, Payload: json.RawMessage("null")},
	}
	for i, r := range records {
		if i > 0 {
			r.PrevHash = records[i-1].RecordHash
		}
		hash, err := computeRecordHash(r)
		if err != nil {
			t.Fatalf("computeRecordHash() failed: %v", err)
		}
		r.RecordHash = hash
	}

	var corruption *CorruptionError
	if !errors.As(VerifyChain(records), &corruption) {
		t.Fatal("expected CorruptionError for ADVISED directly after RECEIVED")
	}
}

func TestVerifyChainDetectsRecordAfterRejection(t *testing.T) {
	records := []*Record{
		{Sequence: 1, ClaimID: "claim-1", Stage: StageReceived, Payload: json.RawMessage("null")},
		{Sequence: 2, ClaimID: "claim-1", Stage: StageRejected, Payload: json.RawMessage("null")},
		{Sequence: 3, ClaimID: "claim-1", Stage: StageFinalized, Payload: json.RawMessage("null")},
	}
	for i, r := range records {
		if i > 0 {
			r.PrevHash = records[i-1].RecordHash
		}
		hash, err := computeRecordHash(r)
		if err != nil {
			t.Fatalf("computeRecordHash() failed: %v", err)
		}
		r.RecordHash = hash
	}

	var corruption *CorruptionError
	if !errors.As(VerifyChain(records), &corruption) {
		t.Fatal("expected CorruptionError for record after terminal REJECTED")
	}
}

func TestVerifyLedger(t *testing.T) {
	l := NewMemoryLedger()
	defer l.Close()

	buildChain(t, l, "claim-a", fullPipeline())
	buildChain(t, l, "claim-b", []Stage{StageReceived, StageRejected})

	if err := VerifyLedger(context.Background(), l); err != nil {
		t.Errorf("VerifyLedger() on intact ledger failed: %v", err)
	}

	l.tamper("claim-a", 2, json.RawMessage(`{}`))

	var corruption *CorruptionError
	if !errors.As(VerifyLedger(context.Background(), l), &corruption) {
		t.Fatal("expected CorruptionError after tampering")
	}
	if corruption.ClaimID != "claim-a" {
		t.Errorf("corruption claim = %q, want claim-a", corruption.ClaimID)
	}
}

func TestCheckerVerifyNow(t *testing.T) {
	l := NewMemoryLedger()
	defer l.Close()

	buildChain(t, l, "claim-1", fullPipeline())

	var reported error
	checker := NewChecker(l, nil, func(err error) { reported = err })

	if err := checker.VerifyNow(context.Background()); err != nil {
		t.Fatalf("VerifyNow() on intact ledger failed: %v", err)
	}
	if reported != nil {
		t.Errorf("violation callback fired on intact ledger: %v", reported)
	}

	l.tamper("claim-1", 1, json.RawMessage(`{}`))

	if err := checker.VerifyNow(context.Background()); err == nil {
		t.Fatal("VerifyNow() should report corruption after tampering")
	}
	if reported == nil {
		t.Error("violation callback should fire on corruption")
	}

	at, result := checker.LastResult()
	if at.IsZero() {
		t.Error("LastResult() time should be set after verification")
	}
	if result == nil {
		t.Error("LastResult() should carry the corruption error")
	}
}
