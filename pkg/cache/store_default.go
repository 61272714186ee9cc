//go:build cgo

package cache

import "fmt"

// New creates a store for native builds.
// For ":memory:" paths, returns MemoryStore (no CGO required).
// For file paths, returns SQLite (requires CGO).
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	if cfg.Path == ":memory:" {
		return NewMemory(), nil
	}

	return NewSQLite(cfg.Path)
}
