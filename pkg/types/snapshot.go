package types

import (
	"encoding/json"
	"fmt"
)

// Snapshot is the persistable per-file suppression state: the intervals
// discovered so far plus how far the file has been resolved. It round-trips
// losslessly through JSON, including target lists and open end markers.
// The cache store treats it as an opaque blob.
type Snapshot struct {
	Fingerprint  Fingerprint      `json:"fingerprint"`
	Watermark    int              `json:"watermark"`
	FullyScanned bool             `json:"fully_scanned,omitempty"`
	Intervals    []IgnoreInterval `json:"intervals,omitempty"`
}

// Encode serializes the snapshot.
func (s *Snapshot) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot deserializes a snapshot previously produced by Encode.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &s, nil
}
