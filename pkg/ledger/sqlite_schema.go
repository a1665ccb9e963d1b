package ledger

// SchemaVersion is the current audit ledger schema version.
const SchemaVersion = 1

// Schema defines the audit ledger tables and indexes. The audit_records
// table is append-only by convention; no UPDATE or DELETE statements exist
// anywhere in this package, and chain verification detects out-of-band
// mutations.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_records (
    sequence    INTEGER NOT NULL PRIMARY KEY,
    claim_id    TEXT    NOT NULL,
    stage       TEXT    NOT NULL,
    payload     TEXT    NOT NULL,
    timestamp   TEXT    NOT NULL,
    prev_hash   TEXT    NOT NULL,
    record_hash TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_records_claim ON audit_records(claim_id, sequence);
CREATE INDEX IF NOT EXISTS idx_audit_records_stage ON audit_records(stage);

CREATE TABLE IF NOT EXISTS schema_version (
    version    INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// InsertSchemaVersion records the schema version if not already present.
const InsertSchemaVersion = `
INSERT OR IGNORE INTO schema_version (version) VALUES (?);
`

// GetSchemaVersion retrieves the highest applied schema version.
const GetSchemaVersion = `
SELECT MAX(version) FROM schema_version;
`
