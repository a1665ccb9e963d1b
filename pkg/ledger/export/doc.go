// Package export provides audit trail exporters for compliance reporting.
//
// Exporters write ledger records to JSON or CSV without transforming them;
// the exported trail carries the same hashes as the stored chain, so an
// exported file can be re-verified independently.
package export
