package archive

import (
	"context"
	"fmt"
	"time"

	"bdr-ai/claimgate/pkg/claim"
	"bdr-ai/claimgate/pkg/gate"
)

// Outcome is the archived terminal status of a claim.
type Outcome string

const (
	OutcomeFinalized Outcome = "finalized"
	OutcomeRejected  Outcome = "rejected"
)

// Entry is an archived terminal claim outcome.
type Entry struct {
	ClaimID         string     `json:"claim_id"`
	ClaimType       claim.Type `json:"claim_type"`
	Outcome         Outcome    `json:"outcome"`
	Category        string     `json:"category,omitempty"`
	Confidence      float64    `json:"confidence,omitempty"`
	DecisionMakerID string     `json:"decision_maker_id"`
	Rationale       string     `json:"rationale,omitempty"`
	DecidedAt       time.Time  `json:"decided_at"`
}

// EntryFromDecision builds an archive entry from a finalized decision.
func EntryFromDecision(claimType claim.Type, d *gate.Decision) *Entry {
	return &Entry{
		ClaimID:         d.ClaimID(),
		ClaimType:       claimType,
		Outcome:         OutcomeFinalized,
		Category:        string(d.Category()),
		Confidence:      d.Confidence(),
		DecisionMakerID: d.DecisionMakerID(),
		Rationale:       d.Rationale(),
		DecidedAt:       d.DecidedAt(),
	}
}

// EntryFromRejection builds an archive entry from a reviewer rejection.
func EntryFromRejection(claimType claim.Type, r *gate.Rejection) *Entry {
	return &Entry{
		ClaimID:         r.ClaimID,
		ClaimType:       claimType,
		Outcome:         OutcomeRejected,
		DecisionMakerID: r.DecisionMakerID,
		Rationale:       r.Reason,
		DecidedAt:       r.RejectedAt,
	}
}

// Query filters archived entries. Zero values match everything.
type Query struct {
	ClaimType       claim.Type
	Outcome         Outcome
	DecisionMakerID string
	Since           *time.Time
	Until           *time.Time
	Limit           int
}

// Archive is the terminal outcome store.
type Archive interface {
	// Store persists a terminal outcome.
	Store(ctx context.Context, entry *Entry) error

	// Find returns entries matching the query, most recent first.
	Find(ctx context.Context, query *Query) ([]*Entry, error)

	// Close releases resources held by the archive.
	Close() error
}

// StorageError indicates an archive backend operation failed.
type StorageError struct {
	Backend string
	Op      string
	Cause   error
}

// NewStorageError creates a StorageError for a backend operation.
func NewStorageError(backend, op string, cause error) *StorageError {
	return &StorageError{Backend: backend, Op: op, Cause: cause}
}

// Error returns the error message.
func (e *StorageError) Error() string {
	return fmt.Sprintf("archive backend %q failed during %s: %v", e.Backend, e.Op, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}
