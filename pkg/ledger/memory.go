package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryLedger implements Ledger using in-memory per-claim chains over a
// single global sequence counter. It is intended for tests and development;
// records are lost on process exit.
type MemoryLedger struct {
	chains  map[string][]*Record
	records []*Record
	seq     uint64
	mu      sync.RWMutex
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		chains: make(map[string][]*Record),
	}
}

// Append records a stage transition for a claim.
func (l *MemoryLedger) Append(ctx context.Context, claimID string, stage Stage, payload any) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewUnavailableError("memory", "append", err)
	}
	if claimID == "" {
		return nil, NewUnavailableError("memory", "append", fmt.Errorf("claim id is required"))
	}
	if !stage.Valid() {
		return nil, NewUnavailableError("memory", "append", fmt.Errorf("unknown stage %q", stage))
	}

	raw, err := marshalPayload(payload)
	if err != nil {
		return nil, NewUnavailableError("memory", "append", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	chain := l.chains[claimID]

	prevHash := ""
	if len(chain) > 0 {
		prevHash = chain[len(chain)-1].RecordHash
	}

	record := &Record{
		Sequence:  l.seq + 1,
		ClaimID:   claimID,
		Stage:     stage,
		Payload:   raw,
		Timestamp: time.Now().UTC(),
		PrevHash:  prevHash,
	}

	hash, err := computeRecordHash(record)
	if err != nil {
		return nil, NewUnavailableError("memory", "append", err)
	}
	record.RecordHash = hash

	l.seq = record.Sequence
	l.chains[claimID] = append(chain, record)
	l.records = append(l.records, record)

	stored := *record
	return &stored, nil
}

// ReadChain returns all records for a claim in sequence order.
func (l *MemoryLedger) ReadChain(ctx context.Context, claimID string) ([]*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewUnavailableError("memory", "read_chain", err)
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	chain := l.chains[claimID]
	out := make([]*Record, len(chain))
	for i, r := range chain {
		record := *r
		out[i] = &record
	}
	return out, nil
}

// ReadAll returns every record in global sequence order.
func (l *MemoryLedger) ReadAll(ctx context.Context) ([]*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewUnavailableError("memory", "read_all", err)
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*Record, len(l.records))
	for i, r := range l.records {
		record := *r
		out[i] = &record
	}
	return out, nil
}

// Close releases resources held by the ledger.
func (l *MemoryLedger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.chains = make(map[string][]*Record)
	l.records = nil
	return nil
}
