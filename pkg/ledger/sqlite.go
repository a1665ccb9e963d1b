package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteConfig contains configuration for the SQLite ledger backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/audit.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteLedger implements Ledger using SQLite. Appends run inside a
// transaction that reads the global sequence high-water mark and the claim's
// last record before inserting, and a process-wide mutex serializes them so
// sequence numbers and hash links never race.
type SQLiteLedger struct {
	db     *sql.DB
	config *SQLiteConfig
	mu     sync.Mutex
	logger *slog.Logger
}

// NewSQLiteLedger creates a SQLite-backed ledger. It initializes the schema
// and enables WAL mode if configured.
func NewSQLiteLedger(config *SQLiteConfig) (*SQLiteLedger, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "ledger.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, NewUnavailableError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	l := &SQLiteLedger{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := l.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite ledger initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return l, nil
}

// initialize sets up the database schema and enables WAL mode.
func (l *SQLiteLedger) initialize() error {
	if l.config.WALMode {
		if _, err := l.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewUnavailableError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := l.config.BusyTimeout.Milliseconds()
	if _, err := l.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return NewUnavailableError("sqlite", "set_busy_timeout", err)
	}

	if _, err := l.db.Exec(Schema); err != nil {
		return NewUnavailableError("sqlite", "create_schema", err)
	}

	if _, err := l.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return NewUnavailableError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := l.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return NewUnavailableError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return NewUnavailableError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	return nil
}

// Append records a stage transition for a claim.
func (l *SQLiteLedger) Append(ctx context.Context, claimID string, stage Stage, payload any) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewUnavailableError("sqlite", "append", err)
	}
	if claimID == "" {
		return nil, NewUnavailableError("sqlite", "append", fmt.Errorf("claim id is required"))
	}
	if !stage.Valid() {
		return nil, NewUnavailableError("sqlite", "append", fmt.Errorf("unknown stage %q", stage))
	}

	raw, err := marshalPayload(payload)
	if err != nil {
		return nil, NewUnavailableError("sqlite", "append", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, NewUnavailableError("sqlite", "begin_tx", err)
	}
	defer tx.Rollback()

	var lastSeq uint64
	row := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(sequence), 0) FROM audit_records")
	if err := row.Scan(&lastSeq); err != nil {
		return nil, NewUnavailableError("sqlite", "read_last_sequence", err)
	}

	var prevHash string
	row = tx.QueryRowContext(ctx,
		"SELECT record_hash FROM audit_records WHERE claim_id = ? ORDER BY sequence DESC LIMIT 1",
		claimID,
	)
	switch err := row.Scan(&prevHash); err {
	case nil, sql.ErrNoRows:
	default:
		return nil, NewUnavailableError("sqlite", "read_last_record", err)
	}

	record := &Record{
		Sequence:  lastSeq + 1,
		ClaimID:   claimID,
		Stage:     stage,
		Payload:   raw,
		Timestamp: time.Now().UTC(),
		PrevHash:  prevHash,
	}

	hash, err := computeRecordHash(record)
	if err != nil {
		return nil, NewUnavailableError("sqlite", "compute_hash", err)
	}
	record.RecordHash = hash

	_, err = tx.ExecContext(ctx,
		"INSERT INTO audit_records (claim_id, sequence, stage, payload, timestamp, prev_hash, record_hash) VALUES (?, ?, ?, ?, ?, ?, ?)",
		record.ClaimID, record.Sequence, string(record.Stage), string(record.Payload),
		record.Timestamp.Format(time.RFC3339Nano), record.PrevHash, record.RecordHash,
	)
	if err != nil {
		return nil, NewUnavailableError("sqlite", "insert", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, NewUnavailableError("sqlite", "commit", err)
	}

	return record, nil
}

// ReadChain returns all records for a claim in sequence order.
func (l *SQLiteLedger) ReadChain(ctx context.Context, claimID string) ([]*Record, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT claim_id, sequence, stage, payload, timestamp, prev_hash, record_hash FROM audit_records WHERE claim_id = ? ORDER BY sequence ASC",
		claimID,
	)
	if err != nil {
		return nil, NewUnavailableError("sqlite", "read_chain", err)
	}
	defer rows.Close()

	return l.scanRecords(rows)
}

// ReadAll returns every record in global sequence order.
func (l *SQLiteLedger) ReadAll(ctx context.Context) ([]*Record, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT claim_id, sequence, stage, payload, timestamp, prev_hash, record_hash FROM audit_records ORDER BY sequence ASC",
	)
	if err != nil {
		return nil, NewUnavailableError("sqlite", "read_all", err)
	}
	defer rows.Close()

	return l.scanRecords(rows)
}

// Close releases resources held by the ledger.
func (l *SQLiteLedger) Close() error {
	if err := l.db.Close(); err != nil {
		return NewUnavailableError("sqlite", "close", err)
	}
	l.logger.Info("SQLite ledger closed")
	return nil
}

// scanRecords reads audit records from a result set.
func (l *SQLiteLedger) scanRecords(rows *sql.Rows) ([]*Record, error) {
	var records []*Record
	for rows.Next() {
		var r Record
		var stage, payload, timestamp string
		if err := rows.Scan(&r.ClaimID, &r.Sequence, &stage, &payload, &timestamp, &r.PrevHash, &r.RecordHash); err != nil {
			return nil, NewUnavailableError("sqlite", "scan", err)
		}
		r.Stage = Stage(stage)
		r.Payload = json.RawMessage(payload)

		ts, err := time.Parse(time.RFC3339Nano, timestamp)
		if err != nil {
			return nil, NewUnavailableError("sqlite", "parse_timestamp", err)
		}
		r.Timestamp = ts

		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, NewUnavailableError("sqlite", "iterate", err)
	}
	return records, nil
}
