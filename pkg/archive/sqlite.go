package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"bdr-ai/claimgate/pkg/claim"
)

// SQLiteArchive implements Archive using SQLite for durable storage.
type SQLiteArchive struct {
	db *sql.DB
}

// NewSQLiteArchive creates a SQLite-backed archive at the given path.
func NewSQLiteArchive(path string) (*SQLiteArchive, error) {
	if path == "" {
		return nil, fmt.Errorf("archive db path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	a := &SQLiteArchive{db: db}
	if err := a.initSchema(); err != nil {
		db.Close()
		return nil, NewStorageError("sqlite", "init_schema", err)
	}
	return a, nil
}

// initSchema creates the archive schema if it doesn't exist.
func (a *SQLiteArchive) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS outcomes (
		claim_id          TEXT NOT NULL,
		claim_type        TEXT NOT NULL,
		outcome           TEXT NOT NULL,
		category          TEXT,
		confidence        REAL,
		decision_maker_id TEXT NOT NULL,
		rationale         TEXT,
		decided_at        TEXT NOT NULL,
		PRIMARY KEY (claim_id, decided_at)
	);

	CREATE INDEX IF NOT EXISTS idx_outcomes_type ON outcomes(claim_type);
	CREATE INDEX IF NOT EXISTS idx_outcomes_outcome ON outcomes(outcome);
	CREATE INDEX IF NOT EXISTS idx_outcomes_decided_at ON outcomes(decided_at);
	`

	_, err := a.db.Exec(schema)
	return err
}

// Store persists a terminal outcome.
func (a *SQLiteArchive) Store(ctx context.Context, entry *Entry) error {
	_, err := a.db.ExecContext(ctx,
		`INSERT INTO outcomes (claim_id, claim_type, outcome, category, confidence, decision_maker_id, rationale, decided_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ClaimID, string(entry.ClaimType), string(entry.Outcome),
		entry.Category, entry.Confidence, entry.DecisionMakerID, entry.Rationale,
		entry.DecidedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return NewStorageError("sqlite", "store", err)
	}
	return nil
}

// Find returns entries matching the query, most recent first.
func (a *SQLiteArchive) Find(ctx context.Context, query *Query) ([]*Entry, error) {
	if query == nil {
		query = &Query{}
	}

	sqlQuery := "SELECT claim_id, claim_type, outcome, category, confidence, decision_maker_id, rationale, decided_at FROM outcomes"
	var conditions []string
	var args []any

	if query.ClaimType != "" {
		conditions = append(conditions, "claim_type = ?")
		args = append(args, string(query.ClaimType))
	}
	if query.Outcome != "" {
		conditions = append(conditions, "outcome = ?")
		args = append(args, string(query.Outcome))
	}
	if query.DecisionMakerID != "" {
		conditions = append(conditions, "decision_maker_id = ?")
		args = append(args, query.DecisionMakerID)
	}
	if query.Since != nil {
		conditions = append(conditions, "decided_at >= ?")
		args = append(args, query.Since.UTC().Format(time.RFC3339Nano))
	}
	if query.Until != nil {
		conditions = append(conditions, "decided_at <= ?")
		args = append(args, query.Until.UTC().Format(time.RFC3339Nano))
	}

	for i, condition := range conditions {
		if i == 0 {
			sqlQuery += " WHERE " + condition
		} else {
			sqlQuery += " AND " + condition
		}
	}
	sqlQuery += " ORDER BY decided_at DESC"
	if query.Limit > 0 {
		sqlQuery += fmt.Sprintf(" LIMIT %d", query.Limit)
	}

	rows, err := a.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, NewStorageError("sqlite", "find", err)
	}
	defer rows.Close()

	var results []*Entry
	for rows.Next() {
		var entry Entry
		var claimType, outcome, decidedAt string
		if err := rows.Scan(&entry.ClaimID, &claimType, &outcome, &entry.Category,
			&entry.Confidence, &entry.DecisionMakerID, &entry.Rationale, &decidedAt); err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		entry.ClaimType = claim.Type(claimType)
		entry.Outcome = Outcome(outcome)

		ts, err := time.Parse(time.RFC3339Nano, decidedAt)
		if err != nil {
			return nil, NewStorageError("sqlite", "parse_timestamp", err)
		}
		entry.DecidedAt = ts

		results = append(results, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "iterate", err)
	}
	return results, nil
}

// Close releases resources held by the archive.
func (a *SQLiteArchive) Close() error {
	if err := a.db.Close(); err != nil {
		return NewStorageError("sqlite", "close", err)
	}
	return nil
}
