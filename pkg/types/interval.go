package types

// OpenEnd is the EndLine value of an interval that extends to end of file.
// Lines are 1-based, so zero is never a real end line.
const OpenEnd = 0

// IgnoreInterval is a resolved suppression region, derived from directives.
// A start directive without a matching stop yields an open interval
// (EndLine == OpenEnd); an inline directive yields a one-line interval.
type IgnoreInterval struct {
	Origin    DirectiveKind `json:"origin"`
	StartLine int           `json:"start_line"`
	EndLine   int           `json:"end_line,omitempty"`
	Targets   []Target      `json:"targets,omitempty"`
}

// Open reports whether the interval extends to end of file.
func (iv IgnoreInterval) Open() bool {
	return iv.EndLine == OpenEnd
}

// ContainsLines reports whether the interval covers every line in
// [startLine, endLine].
func (iv IgnoreInterval) ContainsLines(startLine, endLine int) bool {
	if startLine < iv.StartLine {
		return false
	}
	return iv.Open() || endLine <= iv.EndLine
}

// Covers reports whether the interval applies to the analyzer/rule pair.
func (iv IgnoreInterval) Covers(analyzer, rule string) bool {
	return TargetsCover(iv.Targets, analyzer, rule)
}

// Equal reports structural equality, used to deduplicate intervals
// rediscovered by overlapping scans.
func (iv IgnoreInterval) Equal(other IgnoreInterval) bool {
	if iv.Origin != other.Origin || iv.StartLine != other.StartLine || iv.EndLine != other.EndLine {
		return false
	}
	if len(iv.Targets) != len(other.Targets) {
		return false
	}
	for i := range iv.Targets {
		if iv.Targets[i] != other.Targets[i] {
			return false
		}
	}
	return true
}
