package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Stage identifies a pipeline stage transition recorded in the ledger.
type Stage string

const (
	StageReceived       Stage = "RECEIVED"
	StageValidated      Stage = "VALIDATED"
	StageGoverned       Stage = "GOVERNED"
	StageAdvised        Stage = "ADVISED"
	StageHumanConfirmed Stage = "HUMAN_CONFIRMED"
	StageFinalized      Stage = "FINALIZED"
	StageRejected       Stage = "REJECTED"
)

// canonicalOrder is the stage order a healthy claim progresses through.
// REJECTED is terminal and may follow any prefix of this order.
var canonicalOrder = []Stage{
	StageReceived,
	StageValidated,
	StageGoverned,
	StageAdvised,
	StageHumanConfirmed,
	StageFinalized,
}

// stageRank returns the position of a stage in the canonical order, or -1
// for REJECTED and unknown stages.
func stageRank(s Stage) int {
	for i, stage := range canonicalOrder {
		if stage == s {
			return i
		}
	}
	return -1
}

// Valid reports whether the stage is one of the defined pipeline stages.
func (s Stage) Valid() bool {
	return s == StageRejected || stageRank(s) >= 0
}

// Record is a single immutable audit entry. Records are created by Append
// and never modified afterwards; RecordHash covers the canonical content and
// PrevHash links the record to its predecessor for the same claim.
type Record struct {
	// Sequence is the globally unique sequence number, strictly increasing
	// across all claims. It totally orders the ledger for compliance review;
	// a single claim's chain holds an increasing but not contiguous subset.
	Sequence uint64 `json:"sequence"`

	// ClaimID identifies the claim this record belongs to.
	ClaimID string `json:"claim_id"`

	// Stage is the pipeline stage transition being recorded.
	Stage Stage `json:"stage"`

	// Payload is the stage-specific JSON document: the raw input for
	// RECEIVED, the suggestion for ADVISED, the confirmation for
	// HUMAN_CONFIRMED, the rejection reason for REJECTED, and so on.
	Payload json.RawMessage `json:"payload"`

	// Timestamp is when the record was appended, UTC.
	Timestamp time.Time `json:"timestamp"`

	// PrevHash is the RecordHash of the previous record for the same claim,
	// empty for the first record.
	PrevHash string `json:"prev_hash"`

	// RecordHash is the SHA-256 hash of the canonical record content,
	// including PrevHash.
	RecordHash string `json:"record_hash"`
}

// Ledger is the append-only audit store. Append is the sole write and the
// sole synchronization point: implementations make it atomic so concurrent
// appends never share a sequence number and partial records are never
// visible.
type Ledger interface {
	// Append records a stage transition for a claim. It assigns the sequence
	// number, timestamp, and hashes, and returns the stored record. There is
	// no update or delete counterpart.
	Append(ctx context.Context, claimID string, stage Stage, payload any) (*Record, error)

	// ReadChain returns all records for a claim in sequence order.
	ReadChain(ctx context.Context, claimID string) ([]*Record, error)

	// ReadAll returns every record in the ledger in global sequence order.
	ReadAll(ctx context.Context) ([]*Record, error)

	// Close releases resources held by the ledger.
	Close() error
}

// UnavailableError indicates the ledger backend failed. The pipeline treats
// this as fatal for the claim being processed: no action may be taken whose
// audit record could not be written.
type UnavailableError struct {
	Backend string
	Op      string
	Cause   error
}

// NewUnavailableError creates an UnavailableError for a backend operation.
func NewUnavailableError(backend, op string, cause error) *UnavailableError {
	return &UnavailableError{Backend: backend, Op: op, Cause: cause}
}

// Error returns the error message.
func (e *UnavailableError) Error() string {
	return fmt.Sprintf("ledger backend %q unavailable during %s: %v", e.Backend, e.Op, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// CorruptionError indicates chain verification found a tampered, missing, or
// out-of-order record.
type CorruptionError struct {
	ClaimID  string
	Sequence uint64
	Reason   string
}

// Error returns the error message.
func (e *CorruptionError) Error() string {
	return fmt.Sprintf("ledger corruption for claim %q at sequence %d: %s", e.ClaimID, e.Sequence, e.Reason)
}
