package ledger

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestSQLiteLedger(t *testing.T) *SQLiteLedger {
	t.Helper()

	config := DefaultSQLiteConfig()
	config.Path = filepath.Join(t.TempDir(), "audit.db")

	l, err := NewSQLiteLedger(config)
	if err != nil {
		t.Fatalf("NewSQLiteLedger() failed: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestSQLiteLedgerAppendAndRead(t *testing.T) {
	l := newTestSQLiteLedger(t)
	ctx := context.Background()

	first, err := l.Append(ctx, "claim-1", StageReceived, map[string]any{"damage_amount": 15000.0})
	if err != nil {
		t.Fatalf("Append() failed: %v", err)
	}
	second, err := l.Append(ctx, "claim-1", StageValidated, nil)
	if err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	if second.PrevHash != first.RecordHash {
		t.Errorf("second prev hash = %q, want %q", second.PrevHash, first.RecordHash)
	}

	chain, err := l.ReadChain(ctx, "claim-1")
	if err != nil {
		t.Fatalf("ReadChain() failed: %v", err)
	}
	if len(chain) != 2 {
		t.Fatalf("chain length = %d, want 2", len(chain))
	}
	if chain[0].Stage != StageReceived || chain[1].Stage != StageValidated {
		t.Errorf("unexpected stages: %v, %v", chain[0].Stage, chain[1].Stage)
	}
	if chain[1].RecordHash != second.RecordHash {
		t.Errorf("stored record hash differs from returned record hash")
	}
}

func TestSQLiteLedgerSurvivesReopen(t *testing.T) {
	config := DefaultSQLiteConfig()
	config.Path = filepath.Join(t.TempDir(), "audit.db")
	ctx := context.Background()

	l, err := NewSQLiteLedger(config)
	if err != nil {
		t.Fatalf("NewSQLiteLedger() failed: %v", err)
	}
	if _, err := l.Append(ctx, "claim-1", StageReceived, nil); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	reopened, err := NewSQLiteLedger(config)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	record, err := reopened.Append(ctx, "claim-1", StageValidated, nil)
	if err != nil {
		t.Fatalf("Append() after reopen failed: %v", err)
	}
	if record.Sequence != 2 {
		t.Errorf("sequence after reopen = %d, want 2", record.Sequence)
	}

	chain, err := reopened.ReadChain(ctx, "claim-1")
	if err != nil {
		t.Fatalf("ReadChain() failed: %v", err)
	}
	if err := VerifyChain(chain); err != nil {
		t.Errorf("VerifyChain() after reopen failed: %v", err)
	}
}

func TestSQLiteLedgerVerify(t *testing.T) {
	l := newTestSQLiteLedger(t)
	ctx := context.Background()

	for _, stage := range fullPipeline() {
		if _, err := l.Append(ctx, "claim-1", stage, map[string]string{"stage": string(stage)}); err != nil {
			t.Fatalf("Append(%s) failed: %v", stage, err)
		}
	}

	if err := VerifyLedger(ctx, l); err != nil {
		t.Errorf("VerifyLedger() failed: %v", err)
	}
}

func TestSQLiteLedgerConcurrentAppends(t *testing.T) {
	l := newTestSQLiteLedger(t)

	assertConcurrentAppends(t, l)
}

func TestSQLiteLedgerGlobalSequence(t *testing.T) {
	l := newTestSQLiteLedger(t)
	ctx := context.Background()

	ra, err := l.Append(ctx, "claim-a", StageReceived, nil)
	if err != nil {
		t.Fatalf("Append() failed: %v", err)
	}
	rb, err := l.Append(ctx, "claim-b", StageReceived, nil)
	if err != nil {
		t.Fatalf("Append() failed: %v", err)
	}
	ra2, err := l.Append(ctx, "claim-a", StageValidated, nil)
	if err != nil {
		t.Fatalf("Append() failed: %v", err)
	}

	if ra.Sequence != 1 || rb.Sequence != 2 || ra2.Sequence != 3 {
		t.Errorf("sequences = %d, %d, %d, want 1, 2, 3", ra.Sequence, rb.Sequence, ra2.Sequence)
	}
	if ra2.PrevHash != ra.RecordHash {
		t.Error("claim-a hash chain should skip over claim-b's record")
	}

	all, err := l.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll() failed: %v", err)
	}
	for i, r := range all {
		if r.Sequence != uint64(i)+1 {
			t.Errorf("ReadAll()[%d] sequence = %d, want %d", i, r.Sequence, i+1)
		}
	}

	if err := VerifyLedger(ctx, l); err != nil {
		t.Errorf("VerifyLedger() failed: %v", err)
	}
}
