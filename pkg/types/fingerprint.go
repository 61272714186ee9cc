package types

import (
	"crypto/sha1"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Fingerprint is a Git-style SHA-1 content hash (20 bytes), used to decide
// whether a cached snapshot still describes the file on disk.
type Fingerprint [20]byte

// ComputeFingerprint computes a Git-style blob hash: SHA-1("blob {len}\0{content}").
// Matching Git's hashing means fingerprints line up with blob IDs when the
// orchestrator already knows them from a repository checkout.
func ComputeFingerprint(content []byte) Fingerprint {
	header := fmt.Sprintf("blob %d\x00", len(content))
	h := sha1.New()
	h.Write([]byte(header))
	h.Write(content)

	var fp Fingerprint
	copy(fp[:], h.Sum(nil))
	return fp
}

// Hex returns the 40-character hex string.
func (fp Fingerprint) Hex() string {
	return hex.EncodeToString(fp[:])
}

// String implements Stringer (returns Hex()).
func (fp Fingerprint) String() string {
	return fp.Hex()
}

// ParseFingerprint parses a 40-char hex string.
func ParseFingerprint(hexStr string) (Fingerprint, error) {
	if len(hexStr) != 40 {
		return Fingerprint{}, fmt.Errorf("invalid fingerprint length: expected 40, got %d", len(hexStr))
	}

	decoded, err := hex.DecodeString(hexStr)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("invalid hex string: %w", err)
	}

	var fp Fingerprint
	copy(fp[:], decoded)
	return fp, nil
}

// MarshalJSON implements json.Marshaler.
func (fp Fingerprint) MarshalJSON() ([]byte, error) {
	return json.Marshal(fp.Hex())
}

// UnmarshalJSON implements json.Unmarshaler.
func (fp *Fingerprint) UnmarshalJSON(data []byte) error {
	var hexStr string
	if err := json.Unmarshal(data, &hexStr); err != nil {
		return err
	}

	parsed, err := ParseFingerprint(hexStr)
	if err != nil {
		return err
	}

	*fp = parsed
	return nil
}

// Value implements driver.Valuer for SQL serialization.
func (fp Fingerprint) Value() (driver.Value, error) {
	return fp.Hex(), nil
}

// Scan implements sql.Scanner for SQL deserialization.
func (fp *Fingerprint) Scan(value interface{}) error {
	if value == nil {
		return fmt.Errorf("cannot scan nil into Fingerprint")
	}

	var hexStr string
	switch v := value.(type) {
	case string:
		hexStr = v
	case []byte:
		hexStr = string(v)
	default:
		return fmt.Errorf("cannot scan type %T into Fingerprint", value)
	}

	parsed, err := ParseFingerprint(hexStr)
	if err != nil {
		return err
	}

	*fp = parsed
	return nil
}
