package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"bdr-ai/claimgate/pkg/ledger"
)

// CSVExporter exports audit records to CSV format.
type CSVExporter struct {
	// IncludeHeader includes a header row with column names.
	IncludeHeader bool
}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{
		IncludeHeader: includeHeader,
	}
}

// Export writes audit records to the provided writer in CSV format. The
// payload column carries the raw JSON document unmodified.
func (e *CSVExporter) Export(ctx context.Context, records []*ledger.Record, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if e.IncludeHeader {
		if err := writer.Write(headerRow()); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
	}

	for _, record := range records {
		if err := writer.Write(recordToRow(record)); err != nil {
			return fmt.Errorf("export csv: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	return nil
}

// headerRow returns the CSV header row.
func headerRow() []string {
	return []string{
		"claim_id", "sequence", "stage", "timestamp", "prev_hash", "record_hash", "payload",
	}
}

// recordToRow converts an audit record to a CSV row.
func recordToRow(r *ledger.Record) []string {
	return []string{
		r.ClaimID,
		strconv.FormatUint(r.Sequence, 10),
		string(r.Stage),
		r.Timestamp.UTC().Format(time.RFC3339Nano),
		r.PrevHash,
		r.RecordHash,
		string(r.Payload),
	}
}
