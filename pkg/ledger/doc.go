// Package ledger provides the append-only audit ledger for the claims
// pipeline.
//
// Every stage transition a claim goes through is recorded as an immutable,
// hash-chained record before the transition takes effect (audit-then-act).
// Each record carries the SHA-256 hash of its own canonical content plus the
// hash of the previous record for the same claim, so any retroactive edit,
// deletion, or insertion breaks the chain and is detectable by VerifyChain.
// Sequence numbers are globally unique and strictly increasing across all
// claims, giving the whole ledger a total order for compliance review.
//
// Two backends are provided: an in-memory ledger for tests and development,
// and a SQLite-backed ledger for durable audit trails. The Checker runs
// scheduled chain verification over the whole ledger.
//
// The ledger has no update or delete operations. If the ledger is
// unavailable the pipeline must halt; acting without an audit record is
// never permitted.
package ledger
