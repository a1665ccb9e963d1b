package advisory

import (
	"context"
	"fmt"

	"bdr-ai/claimgate/pkg/govern"
)

// Model is the advisory capability consumed by the decision engine. An
// implementation must be deterministic: identical validated inputs produce
// identical suggestions, enabling reproducibility audits.
//
// The *govern.ValidatedInput parameter makes it impossible to invoke a model
// with unvalidated data; only the governance validator can construct one.
type Model interface {
	// Suggest produces a non-binding advisory suggestion for the validated
	// claim. Implementations must honor context cancellation and return
	// UnavailableError on any internal failure; they never return a default
	// guess. The fail-safe policy is stop-and-require-human-review, never
	// silently-approve.
	Suggest(ctx context.Context, input *govern.ValidatedInput) (*Suggestion, error)

	// Name identifies the model implementation for audit payloads.
	Name() string
}

// UnavailableError indicates the advisory model failed or timed out. The
// pipeline treats it as terminal for the claim; there is no default
// suggestion and no automatic retry.
type UnavailableError struct {
	Model string
	Cause error
}

// Error returns the error message.
func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("advisory model %q unavailable: %v", e.Model, e.Cause)
	}
	return fmt.Sprintf("advisory model %q unavailable", e.Model)
}

// Unwrap returns the underlying cause.
func (e *UnavailableError) Unwrap() error {
	return e.Cause
}
