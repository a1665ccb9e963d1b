package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// hashEnvelope is the canonical content covered by a record hash. Field
// order is fixed by this struct; changing it invalidates every stored chain.
type hashEnvelope struct {
	Sequence  uint64          `json:"sequence"`
	ClaimID   string          `json:"claim_id"`
	Stage     Stage           `json:"stage"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp string          `json:"timestamp"`
	PrevHash  string          `json:"prev_hash"`
}

// computeRecordHash returns the hex-encoded SHA-256 hash over the record's
// canonical envelope. PrevHash must already be set; RecordHash is ignored.
func computeRecordHash(r *Record) (string, error) {
	envelope := hashEnvelope{
		Sequence:  r.Sequence,
		ClaimID:   r.ClaimID,
		Stage:     r.Stage,
		Payload:   r.Payload,
		Timestamp: r.Timestamp.UTC().Format(time.RFC3339Nano),
		PrevHash:  r.PrevHash,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return "", fmt.Errorf("marshal hash envelope: %w", err)
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// marshalPayload converts a stage payload to canonical JSON. A nil payload
// becomes the JSON null literal so hashing stays deterministic.
func marshalPayload(payload any) (json.RawMessage, error) {
	if payload == nil {
		return json.RawMessage("null"), nil
	}
	if raw, ok := payload.(json.RawMessage); ok {
		return raw, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return data, nil
}
