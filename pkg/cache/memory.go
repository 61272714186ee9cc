package cache

import (
	"sync"

	"github.com/shushd/shush/pkg/types"
)

// snapshotRecord stores one file's encoded snapshot.
type snapshotRecord struct {
	fingerprint types.Fingerprint
	blob        []byte
}

// MemoryStore implements Store using in-memory data structures.
// No CGO dependency required. Snapshots are kept in encoded form so load
// behaves exactly like a persistent backend, corrupt-blob handling included.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]snapshotRecord // keyed by file path
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[string]snapshotRecord),
	}
}

// Load retrieves the snapshot for a file.
func (m *MemoryStore) Load(path string, fp types.Fingerprint) (*types.Snapshot, error) {
	m.mu.RLock()
	rec, ok := m.snapshots[path]
	m.mu.RUnlock()

	if !ok || rec.fingerprint != fp {
		return nil, nil
	}

	snap, err := types.DecodeSnapshot(rec.blob)
	if err != nil {
		return nil, nil
	}
	return snap, nil
}

// Save stores the snapshot for a file, replacing any prior one.
func (m *MemoryStore) Save(path string, fp types.Fingerprint, snap *types.Snapshot) error {
	blob, err := snap.Encode()
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.snapshots[path] = snapshotRecord{fingerprint: fp, blob: blob}
	m.mu.Unlock()
	return nil
}

// Close is a no-op for the memory store.
func (m *MemoryStore) Close() error {
	return nil
}
