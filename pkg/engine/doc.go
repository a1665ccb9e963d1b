// Package engine orchestrates the governed claims pipeline.
//
// Evaluate drives a claim through the fixed stage order
// RECEIVED -> VALIDATED -> GOVERNED -> ADVISED -> HUMAN_CONFIRMED ->
// FINALIZED, or terminates it early with REJECTED. Every stage is recorded
// in the audit ledger before its result is acted on (audit-then-act); a
// stage whose record cannot be written does not happen, and a ledger
// failure aborts the claim entirely.
//
// The engine holds no cross-request mutable state. Concurrent Evaluate
// calls share only the ledger, whose appends are serialized per claim.
package engine
