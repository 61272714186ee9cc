// Package cache persists per-file suppression snapshots across runs.
// Snapshots are opaque blobs keyed by file path and content fingerprint; a
// fingerprint mismatch on load is a miss, not an error, so changed files
// silently cold-start.
package cache

import "github.com/shushd/shush/pkg/types"

// Store provides persistence for suppression snapshots.
// This interface abstracts the underlying storage implementation,
// allowing for different backends (SQLite, in-memory, etc.).
type Store interface {
	// Load retrieves the snapshot for a file. Returns nil (no error) when
	// no snapshot exists, the stored fingerprint does not match fp, or the
	// stored blob fails to decode.
	Load(path string, fp types.Fingerprint) (*types.Snapshot, error)

	// Save stores the snapshot for a file, replacing any prior one.
	Save(path string, fp types.Fingerprint, snap *types.Snapshot) error

	// Close closes the store and releases resources.
	Close() error
}

// Config for store initialization.
type Config struct {
	// Path is the database file path.
	// Use ":memory:" for an in-memory store (useful for testing).
	Path string
}
