package ledger

import (
	"context"
	"fmt"
)

// VerifyChain checks the integrity of a single claim's audit chain. It
// verifies that sequence numbers are strictly increasing, that the chain
// starts at its genesis (empty PrevHash), that every record's hash matches
// its canonical content, that each PrevHash links to the predecessor, and
// that the stages form a valid prefix of the pipeline order, optionally
// terminated early by REJECTED.
//
// Sequence numbers are global across claims, so a single chain's sequences
// are increasing but not contiguous.
func VerifyChain(records []*Record) error {
	if len(records) == 0 {
		return nil
	}

	claimID := records[0].ClaimID
	prevHash := ""
	prevSeq := uint64(0)
	terminated := false
	nextRank := 0

	for _, r := range records {
		if r.ClaimID != claimID {
			return &CorruptionError{ClaimID: claimID, Sequence: r.Sequence,
				Reason: fmt.Sprintf("record belongs to claim %q", r.ClaimID)}
		}
		if r.Sequence <= prevSeq {
			return &CorruptionError{ClaimID: claimID, Sequence: r.Sequence,
				Reason: fmt.Sprintf("sequence not increasing: %d after %d", r.Sequence, prevSeq)}
		}
		if r.PrevHash != prevHash {
			return &CorruptionError{ClaimID: claimID, Sequence: r.Sequence,
				Reason: "prev hash does not match predecessor"}
		}

		hash, err := computeRecordHash(r)
		if err != nil {
			return &CorruptionError{ClaimID: claimID, Sequence: r.Sequence,
				Reason: fmt.Sprintf("recompute hash: %v", err)}
		}
		if hash != r.RecordHash {
			return &CorruptionError{ClaimID: claimID, Sequence: r.Sequence,
				Reason: "record hash does not match content"}
		}

		if terminated {
			return &CorruptionError{ClaimID: claimID, Sequence: r.Sequence,
				Reason: "record appended after terminal stage"}
		}

		switch {
		case r.Stage == StageRejected:
			terminated = true
		case stageRank(r.Stage) == nextRank:
			nextRank++
		default:
			return &CorruptionError{ClaimID: claimID, Sequence: r.Sequence,
				Reason: fmt.Sprintf("stage %q out of pipeline order", r.Stage)}
		}

		prevHash = r.RecordHash
		prevSeq = r.Sequence
	}

	return nil
}

// VerifyLedger verifies the whole ledger: the global sequence must be
// strictly increasing across all records, and every claim chain must be
// intact. It returns the first corruption found, or nil.
func VerifyLedger(ctx context.Context, l Ledger) error {
	records, err := l.ReadAll(ctx)
	if err != nil {
		return err
	}

	chains := make(map[string][]*Record)
	var order []string
	prevSeq := uint64(0)
	for _, r := range records {
		if r.Sequence <= prevSeq {
			return &CorruptionError{ClaimID: r.ClaimID, Sequence: r.Sequence,
				Reason: fmt.Sprintf("global sequence not increasing: %d after %d", r.Sequence, prevSeq)}
		}
		prevSeq = r.Sequence

		if _, seen := chains[r.ClaimID]; !seen {
			order = append(order, r.ClaimID)
		}
		chains[r.ClaimID] = append(chains[r.ClaimID], r)
	}

	for _, claimID := range order {
		if err := VerifyChain(chains[claimID]); err != nil {
			return err
		}
	}
	return nil
}
