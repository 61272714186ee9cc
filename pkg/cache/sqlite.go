package cache

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/shushd/shush/pkg/types"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-based store.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load retrieves the snapshot for a file.
// A missing row, a fingerprint mismatch, and a corrupt stored blob are all
// misses: the caller cold-starts and rescans.
func (s *SQLiteStore) Load(path string, fp types.Fingerprint) (*types.Snapshot, error) {
	var storedFP types.Fingerprint
	var blob []byte
	err := s.db.QueryRow(
		"SELECT fingerprint, snapshot FROM snapshots WHERE path = ?", path,
	).Scan(&storedFP, &blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}

	if storedFP != fp {
		return nil, nil
	}

	snap, err := types.DecodeSnapshot(blob)
	if err != nil {
		// Corrupt snapshot degrades to a cold start rather than aborting.
		return nil, nil
	}

	return snap, nil
}

// Save stores the snapshot for a file, replacing any prior one.
func (s *SQLiteStore) Save(path string, fp types.Fingerprint, snap *types.Snapshot) error {
	blob, err := snap.Encode()
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO snapshots (path, fingerprint, snapshot, updated_at)
		VALUES (?, ?, ?, datetime('now'))
	`,
		path,
		fp.Hex(),
		string(blob),
	)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
