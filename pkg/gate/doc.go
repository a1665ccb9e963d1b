// Package gate implements the human confirmation gate, the only component
// that can produce a final decision.
//
// The advisory model suggests; a human decides. Decision has unexported
// fields and no exported constructor, so the compiler itself enforces that
// no code path can finalize a claim without passing through Gate.Confirm
// with an explicit HumanConfirmation. Every confirmation must carry a
// rationale, whether it accepts or declines the suggestion. A declined
// confirmation yields a Rejection, which is a terminal outcome rather
// than an error.
package gate
