// Package source provides line-addressed access to file text for the
// suppression engine. The Accessor boundary keeps the range manager ignorant
// of how bytes are obtained; the default implementation reads through an
// afero filesystem so tests can run against in-memory fixtures.
package source

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/shushd/shush/pkg/types"
)

// FileAccessError reports that a file could not be read. It is fatal for
// queries against that file only; other files are unaffected.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("accessing %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// Accessor provides 1-indexed line access and content identity for files.
type Accessor interface {
	// Line returns line n (1-indexed) without its trailing newline.
	Line(id types.FileID, n int) (string, error)

	// LineCount returns the number of lines in the file.
	LineCount(id types.FileID) (int, error)

	// Fingerprint returns the content fingerprint of the file.
	Fingerprint(id types.FileID) (types.Fingerprint, error)
}

// FileAccessor reads files through an afero filesystem and caches the split
// lines per file. Safe for concurrent use.
type FileAccessor struct {
	fs afero.Fs

	mu    sync.RWMutex
	files map[types.FileID]*fileText
}

// fileText is the cached text of one file.
type fileText struct {
	lines       []string
	fingerprint types.Fingerprint
}

// NewFileAccessor creates an accessor over the given filesystem.
// A nil fs selects the OS filesystem.
func NewFileAccessor(fs afero.Fs) *FileAccessor {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileAccessor{
		fs:    fs,
		files: make(map[types.FileID]*fileText),
	}
}

// Line returns line n (1-indexed) of the file.
func (a *FileAccessor) Line(id types.FileID, n int) (string, error) {
	ft, err := a.load(id)
	if err != nil {
		return "", err
	}
	if n < 1 || n > len(ft.lines) {
		return "", fmt.Errorf("%s: line %d out of range (file has %d lines)", id, n, len(ft.lines))
	}
	return ft.lines[n-1], nil
}

// LineCount returns the number of lines in the file.
func (a *FileAccessor) LineCount(id types.FileID) (int, error) {
	ft, err := a.load(id)
	if err != nil {
		return 0, err
	}
	return len(ft.lines), nil
}

// Fingerprint returns the content fingerprint of the file.
func (a *FileAccessor) Fingerprint(id types.FileID) (types.Fingerprint, error) {
	ft, err := a.load(id)
	if err != nil {
		return types.Fingerprint{}, err
	}
	return ft.fingerprint, nil
}

// Invalidate drops the cached text for a file, forcing a re-read on the next
// access. Used when the orchestrator knows a file changed mid-run.
func (a *FileAccessor) Invalidate(id types.FileID) {
	a.mu.Lock()
	delete(a.files, id)
	a.mu.Unlock()
}

// load reads and splits the file once, caching the result.
func (a *FileAccessor) load(id types.FileID) (*fileText, error) {
	a.mu.RLock()
	ft, ok := a.files[id]
	a.mu.RUnlock()
	if ok {
		return ft, nil
	}

	content, err := afero.ReadFile(a.fs, string(id))
	if err != nil {
		return nil, &FileAccessError{Path: string(id), Err: err}
	}

	ft = &fileText{
		lines:       splitLines(content),
		fingerprint: types.ComputeFingerprint(content),
	}

	a.mu.Lock()
	// Another goroutine may have loaded concurrently; keep the first entry
	// so fingerprint and lines stay consistent.
	if existing, ok := a.files[id]; ok {
		ft = existing
	} else {
		a.files[id] = ft
	}
	a.mu.Unlock()

	return ft, nil
}

// splitLines splits content into lines without trailing newlines.
// CRLF endings are normalized. A trailing newline does not produce an empty
// final line.
func splitLines(content []byte) []string {
	s := string(content)
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
