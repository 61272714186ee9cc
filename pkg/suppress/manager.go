// Package suppress implements the range manager: lazily-grown per-file
// suppression state answering "is this range ignored?" for streaming
// diagnostics. Nothing is pre-scanned; each query scans backward from its
// own line only as far as the file's watermark, so unmarked files cost a
// handful of line reads and cached files cost none.
package suppress

import (
	"fmt"
	"slices"
	"sync"

	"github.com/shushd/shush/pkg/cache"
	"github.com/shushd/shush/pkg/directive"
	"github.com/shushd/shush/pkg/source"
	"github.com/shushd/shush/pkg/types"
)

// Config for manager initialization.
type Config struct {
	// Accessor provides line access to file text. Required.
	Accessor source.Accessor

	// Matcher classifies directive lines. Nil selects the builtin grammar.
	Matcher *directive.Matcher

	// Cache persists per-file snapshots across runs. Optional.
	Cache cache.Store
}

// Manager owns the per-file suppression state for one run. Queries against
// different files proceed concurrently; queries against the same file
// serialize on that file's record, so readers never observe a half-updated
// interval list.
type Manager struct {
	accessor source.Accessor
	matcher  *directive.Matcher
	cache    cache.Store

	mu    sync.RWMutex
	files map[types.FileID]*fileState
}

// fileState is the mutable record for one tracked file.
// watermark is the highest line already resolved: every directive on lines
// [1, watermark] is reflected in intervals. Grows monotonically.
type fileState struct {
	mu           sync.Mutex
	seeded       bool
	fingerprint  types.Fingerprint
	watermark    int
	fullyScanned bool
	intervals    []types.IgnoreInterval
	dirty        bool
}

// NewManager creates a range manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Accessor == nil {
		return nil, fmt.Errorf("accessor is required")
	}

	m := cfg.Matcher
	if m == nil {
		m = directive.NewMatcher(nil)
	}

	return &Manager{
		accessor: cfg.Accessor,
		matcher:  m,
		cache:    cfg.Cache,
	}, nil
}

// IsIgnored reports whether a diagnostic from the given analyzer/rule pair,
// located at r, falls inside an author-marked ignore region.
//
// A whole-file range is ignored when any compatible interval exists anywhere
// in the file. File access failures propagate as *source.FileAccessError
// without committing partial state; the caller decides whether to fail open.
func (m *Manager) IsIgnored(r types.Range, analyzer, rule string) (bool, error) {
	if r.File == "" {
		return false, fmt.Errorf("range has no file")
	}

	st := m.fileFor(r.File)
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := m.seed(st, r.File); err != nil {
		return false, err
	}

	if r.WholeFile() {
		if err := m.ensureFullScan(st, r.File); err != nil {
			return false, err
		}
		for _, iv := range st.intervals {
			if iv.Covers(analyzer, rule) {
				return true, nil
			}
		}
		return false, nil
	}

	line := r.Start.Line
	if line < 1 {
		return false, fmt.Errorf("range start line must be 1-based, got %d", line)
	}

	if line > st.watermark && !st.fullyScanned {
		shortCircuit, err := m.scanTo(st, r.File, line, analyzer, rule, true)
		if err != nil {
			return false, err
		}
		if shortCircuit {
			return true, nil
		}
	}

	return st.covered(r, analyzer, rule), nil
}

// Explain returns the interval that suppresses r, or nil when r is not
// ignored. Same contract as IsIgnored otherwise.
func (m *Manager) Explain(r types.Range, analyzer, rule string) (*types.IgnoreInterval, error) {
	ignored, err := m.IsIgnored(r, analyzer, rule)
	if err != nil || !ignored {
		return nil, err
	}

	st := m.fileFor(r.File)
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, iv := range st.intervals {
		if !iv.Covers(analyzer, rule) {
			continue
		}
		if r.WholeFile() || iv.ContainsLines(queryLines(r)) {
			found := iv
			return &found, nil
		}
	}
	return nil, nil
}

// Invalidate destroys the state for a file, forcing a rescan on the next
// query. Call when the orchestrator knows the file's content changed.
func (m *Manager) Invalidate(id types.FileID) {
	m.mu.Lock()
	delete(m.files, id)
	m.mu.Unlock()
}

// Flush saves the snapshot of every file whose state changed since the last
// flush. A no-op without a cache store.
func (m *Manager) Flush() error {
	if m.cache == nil {
		return nil
	}

	m.mu.RLock()
	files := make(map[types.FileID]*fileState, len(m.files))
	for id, st := range m.files {
		files[id] = st
	}
	m.mu.RUnlock()

	for id, st := range files {
		st.mu.Lock()
		if !st.seeded || !st.dirty {
			st.mu.Unlock()
			continue
		}
		snap := &types.Snapshot{
			Fingerprint:  st.fingerprint,
			Watermark:    st.watermark,
			FullyScanned: st.fullyScanned,
			Intervals:    slices.Clone(st.intervals),
		}
		fp := st.fingerprint
		st.dirty = false
		st.mu.Unlock()

		if err := m.cache.Save(string(id), fp, snap); err != nil {
			return fmt.Errorf("saving snapshot for %s: %w", id, err)
		}
	}

	return nil
}

// fileFor returns the state record for a file, creating it on first use.
func (m *Manager) fileFor(id types.FileID) *fileState {
	m.mu.RLock()
	st, ok := m.files[id]
	m.mu.RUnlock()
	if ok {
		return st
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.files[id]; ok {
		return st
	}
	if m.files == nil {
		m.files = make(map[types.FileID]*fileState)
	}
	st = &fileState{}
	m.files[id] = st
	return st
}

// seed initializes a file record on first query: fingerprint the content
// and adopt a cached snapshot when its fingerprint still matches.
// Called with st.mu held.
func (m *Manager) seed(st *fileState, id types.FileID) error {
	if st.seeded {
		return nil
	}

	fp, err := m.accessor.Fingerprint(id)
	if err != nil {
		return err
	}
	st.fingerprint = fp

	if m.cache != nil {
		snap, err := m.cache.Load(string(id), fp)
		if err == nil && snap != nil {
			st.watermark = snap.Watermark
			st.fullyScanned = snap.FullyScanned
			st.intervals = slices.Clone(snap.Intervals)
		}
		// A load failure is a cold start, not a query failure.
	}

	st.seeded = true
	return nil
}

// ensureFullScan resolves the whole file, once. Called with st.mu held.
func (m *Manager) ensureFullScan(st *fileState, id types.FileID) error {
	if st.fullyScanned {
		return nil
	}

	count, err := m.accessor.LineCount(id)
	if err != nil {
		return err
	}

	if count > st.watermark {
		if _, err := m.scanTo(st, id, count, "", "", false); err != nil {
			return err
		}
	}

	st.fullyScanned = true
	st.dirty = true
	return nil
}

// covered reports whether any known interval suppresses r for the
// analyzer/rule pair. Called with st.mu held.
func (st *fileState) covered(r types.Range, analyzer, rule string) bool {
	startLine, endLine := queryLines(r)
	for _, iv := range st.intervals {
		if iv.Covers(analyzer, rule) && iv.ContainsLines(startLine, endLine) {
			return true
		}
	}
	return false
}

// queryLines reduces a range to the closed line interval it occupies.
// A stop position in column 1 does not extend the range onto that line
// (half-open convention).
func queryLines(r types.Range) (startLine, endLine int) {
	startLine = r.Start.Line
	endLine = r.Stop.Line
	if endLine < startLine {
		endLine = startLine
	}
	if endLine > startLine && r.Stop.Column <= 1 {
		endLine--
	}
	return startLine, endLine
}
