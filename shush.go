// Package shush decides whether static-analysis diagnostics fall inside
// source regions their authors marked ignored with inline directives such as
// "# ignore flake8(E501)" or "// start ignoring pylint".
//
// Decisions are made on demand as diagnostics stream in. No file is scanned
// eagerly: the first query against a file walks backward from its own line,
// later queries only cover the lines the previous ones left unresolved, and
// the per-file state can be persisted and reloaded across runs keyed by a
// content fingerprint.
//
// # Basic Usage
//
// Create a suppressor and query it per diagnostic:
//
//	sup, err := shush.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sup.Close()
//
//	ignored, err := sup.IsIgnored(shush.LineRange("main.py", 42), "flake8", "E501")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # With a persistent cache
//
// Reuse suppression state across runs so unchanged files are never rescanned:
//
//	sup, err := shush.New(shush.WithCachePath("shush.db"))
//	...
//	defer sup.Close() // flushes snapshots
package shush

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/shushd/shush/pkg/cache"
	"github.com/shushd/shush/pkg/directive"
	"github.com/shushd/shush/pkg/report"
	"github.com/shushd/shush/pkg/source"
	"github.com/shushd/shush/pkg/suppress"
	"github.com/shushd/shush/pkg/types"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/shushd/shush" without subpackages.
type (
	// Position is a line:column location (1-based).
	Position = types.Position

	// Range is a span of source text within one file.
	Range = types.Range

	// FileID identifies a tracked source file.
	FileID = types.FileID

	// Directive is a parsed ignore marker.
	Directive = types.Directive

	// Target names an analyzer and optionally one of its rules.
	Target = types.Target

	// IgnoreInterval is a resolved suppression region.
	IgnoreInterval = types.IgnoreInterval

	// Snapshot is the persistable per-file suppression state.
	Snapshot = types.Snapshot

	// Diagnostic is one analysis result in the stream format.
	Diagnostic = report.Diagnostic

	// Region is a diagnostic's line:column span.
	Region = report.Region
)

// Re-export directive kinds.
const (
	KindStart  = types.KindStart
	KindStop   = types.KindStop
	KindInline = types.KindInline
)

// LineRange builds a range covering one entire line.
func LineRange(file FileID, line int) Range {
	return types.LineRange(file, line)
}

// WholeFileRange builds a range denoting the whole file.
func WholeFileRange(file FileID) Range {
	return types.WholeFileRange(file)
}

// Suppressor answers suppression queries for streaming diagnostics.
type Suppressor struct {
	manager  *suppress.Manager
	accessor *source.FileAccessor
	cache    cache.Store
	config   *suppressorConfig
}

// suppressorConfig holds suppressor configuration.
type suppressorConfig struct {
	fs          afero.Fs
	cachePath   string
	cacheStore  cache.Store
	grammarPath string
	warn        func(format string, args ...interface{})
}

// Option configures a Suppressor.
type Option func(*suppressorConfig)

// WithFs reads file text through the given filesystem instead of the OS
// filesystem. Useful for testing against in-memory fixtures.
func WithFs(fs afero.Fs) Option {
	return func(c *suppressorConfig) {
		c.fs = fs
	}
}

// WithCachePath persists per-file snapshots to a SQLite database at the
// given path, so unchanged files are not rescanned on later runs.
func WithCachePath(path string) Option {
	return func(c *suppressorConfig) {
		c.cachePath = path
	}
}

// WithCache uses a caller-owned snapshot store. The suppressor will not
// close it.
func WithCache(store cache.Store) Option {
	return func(c *suppressorConfig) {
		c.cacheStore = store
	}
}

// WithGrammarFile loads additional directive markers from a YAML file.
// The builtin "ignore"/"start ignoring"/"stop ignoring" grammar stays active.
func WithGrammarFile(path string) Option {
	return func(c *suppressorConfig) {
		c.grammarPath = path
	}
}

// WithWarnFunc installs a callback for non-fatal problems, such as an
// unreadable file during fail-open filtering. Default is silent.
func WithWarnFunc(warn func(format string, args ...interface{})) Option {
	return func(c *suppressorConfig) {
		c.warn = warn
	}
}

// New creates a Suppressor with the given options.
//
// By default the suppressor:
//   - reads files from the OS filesystem
//   - recognizes the builtin directive grammar only
//   - keeps state in memory for the lifetime of the process
func New(opts ...Option) (*Suppressor, error) {
	config := &suppressorConfig{
		warn: func(string, ...interface{}) {},
	}
	for _, opt := range opts {
		opt(config)
	}

	grammar := directive.Default()
	if config.grammarPath != "" {
		var err error
		grammar, err = directive.LoadGrammar(config.grammarPath)
		if err != nil {
			return nil, fmt.Errorf("loading grammar: %w", err)
		}
	}

	var store cache.Store
	var ownedStore cache.Store
	switch {
	case config.cacheStore != nil:
		store = config.cacheStore
	case config.cachePath != "":
		s, err := cache.New(cache.Config{Path: config.cachePath})
		if err != nil {
			return nil, fmt.Errorf("opening cache: %w", err)
		}
		store = s
		ownedStore = s
	}

	accessor := source.NewFileAccessor(config.fs)
	manager, err := suppress.NewManager(suppress.Config{
		Accessor: accessor,
		Matcher:  directive.NewMatcher(grammar),
		Cache:    store,
	})
	if err != nil {
		if ownedStore != nil {
			ownedStore.Close()
		}
		return nil, fmt.Errorf("creating range manager: %w", err)
	}

	return &Suppressor{
		manager:  manager,
		accessor: accessor,
		cache:    ownedStore,
		config:   config,
	}, nil
}

// IsIgnored reports whether a diagnostic from the analyzer/rule pair located
// at r is suppressed by an inline directive.
func (s *Suppressor) IsIgnored(r Range, analyzer, rule string) (bool, error) {
	return s.manager.IsIgnored(r, analyzer, rule)
}

// Explain returns the interval suppressing r, or nil when r is not ignored.
func (s *Suppressor) Explain(r Range, analyzer, rule string) (*IgnoreInterval, error) {
	return s.manager.Explain(r, analyzer, rule)
}

// Keep reports whether a streamed diagnostic should be kept (not
// suppressed). It fails open: when the diagnostic's file cannot be read, the
// diagnostic is kept and the warn callback is invoked, so infrastructure
// failure never hides real problems.
func (s *Suppressor) Keep(d *Diagnostic) bool {
	ignored, err := s.manager.IsIgnored(d.Range(), d.Analyzer, d.Rule)
	if err != nil {
		s.config.warn("cannot resolve suppression for %s: %v", d.File, err)
		return true
	}
	return !ignored
}

// Invalidate drops the suppression state and cached text for a file, so the
// next query re-reads and rescans it.
func (s *Suppressor) Invalidate(id FileID) {
	s.manager.Invalidate(id)
	s.accessor.Invalidate(id)
}

// Flush persists dirty per-file snapshots to the cache store, if any.
func (s *Suppressor) Flush() error {
	return s.manager.Flush()
}

// Close flushes snapshots and releases the cache store when owned.
func (s *Suppressor) Close() error {
	flushErr := s.Flush()
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			return err
		}
	}
	return flushErr
}
