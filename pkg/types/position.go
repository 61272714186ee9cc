package types

// FileID identifies a tracked source file. It is the path as reported by the
// analysis pass, used verbatim as the registry and cache key.
type FileID string

// Position is a line:column location (1-based).
// The zero value means "no position".
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Compare returns -1, 0, or 1 as p sorts before, equal to, or after other.
// Line is the primary key, column the secondary.
//
// Positions are only ordered within a single file. Comparing positions taken
// from ranges of different files is a caller bug; Position itself carries no
// file identity, so the check lives on Range.
func (p Position) Compare(other Position) int {
	if p.Line != other.Line {
		if p.Line < other.Line {
			return -1
		}
		return 1
	}
	if p.Column != other.Column {
		if p.Column < other.Column {
			return -1
		}
		return 1
	}
	return 0
}

// IsZero reports whether p is the zero position (no location).
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

// Range is a span of source text within one file.
// Start and Stop both zero denotes the whole file: a diagnostic without a
// precise location, suppressed by any compatible directive anywhere in the
// file.
type Range struct {
	File  FileID   `json:"file"`
	Start Position `json:"start"`
	Stop  Position `json:"stop"`
}

// NewRange builds a range from start to stop. Start must not sort after stop.
func NewRange(file FileID, start, stop Position) Range {
	if start.Compare(stop) > 0 {
		panic("types: range start is after stop")
	}
	return Range{File: file, Start: start, Stop: stop}
}

// LineRange builds a range covering one entire line.
func LineRange(file FileID, line int) Range {
	return Range{
		File:  file,
		Start: Position{Line: line, Column: 1},
		Stop:  Position{Line: line + 1, Column: 1},
	}
}

// WholeFileRange builds a range denoting the whole file.
func WholeFileRange(file FileID) Range {
	return Range{File: file}
}

// WholeFile reports whether r denotes the whole file.
func (r Range) WholeFile() bool {
	return r.Start.IsZero() && r.Stop.IsZero()
}

// Contains reports whether inner lies entirely within r.
// Ranges in different files never contain each other. A whole-file range
// contains every range of its file regardless of coordinates; column detail
// on the inner range is never consulted in that case.
func (r Range) Contains(inner Range) bool {
	if r.File != inner.File {
		return false
	}
	if r.WholeFile() {
		return true
	}
	if inner.WholeFile() {
		return false
	}
	return r.Start.Compare(inner.Start) <= 0 && inner.Stop.Compare(r.Stop) <= 0
}
