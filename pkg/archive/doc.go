// Package archive persists terminal claim outcomes for compliance
// reporting.
//
// The archive sits at the output boundary of the pipeline: it stores what
// was decided (or rejected) and by whom, queryable by claim type, outcome,
// decision maker, and time range. It is not the audit ledger; the ledger
// holds the tamper-evident stage trail while the archive holds the
// reporting view. Two backends are provided: memory for tests and SQLite
// for durable storage.
package archive
