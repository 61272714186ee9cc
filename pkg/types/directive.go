package types

import "strings"

// DirectiveKind distinguishes the three directive forms.
type DirectiveKind string

const (
	// KindStart opens a suppression region that stays open until a matching
	// stop directive or end of file.
	KindStart DirectiveKind = "start"

	// KindStop closes a suppression region.
	KindStop DirectiveKind = "stop"

	// KindInline suppresses only the line the directive appears on.
	KindInline DirectiveKind = "inline"
)

// Target names an analyzer and optionally one of its rules.
// An empty Rule means all rules of the analyzer.
type Target struct {
	Analyzer string `json:"analyzer"`
	Rule     string `json:"rule,omitempty"`
}

// Covers reports whether t applies to a diagnostic from the given
// analyzer/rule pair. The literal analyzer "all" applies to everything;
// authors write "start ignoring all" with exactly that meaning.
func (t Target) Covers(analyzer, rule string) bool {
	if strings.EqualFold(t.Analyzer, "all") {
		return true
	}
	if !strings.EqualFold(t.Analyzer, analyzer) {
		return false
	}
	return t.Rule == "" || strings.EqualFold(t.Rule, rule)
}

// Directive is a parsed ignore marker.
// An empty target list means "suppress everything", not "suppress nothing";
// the bare "// ignore" is the common case and must stay cheap to write.
type Directive struct {
	Kind    DirectiveKind `json:"kind"`
	Targets []Target      `json:"targets,omitempty"`
}

// Covers reports whether the directive applies to the analyzer/rule pair.
func (d Directive) Covers(analyzer, rule string) bool {
	return TargetsCover(d.Targets, analyzer, rule)
}

// TargetsCover reports whether any target in the list applies to the
// analyzer/rule pair. An empty list covers everything.
func TargetsCover(targets []Target, analyzer, rule string) bool {
	if len(targets) == 0 {
		return true
	}
	for _, t := range targets {
		if t.Covers(analyzer, rule) {
			return true
		}
	}
	return false
}

// TargetsEqual reports whether two target lists name the same targets,
// ignoring order and case. Used to pair stop directives with the start
// directives they close.
func TargetsEqual(a, b []Target) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
outer:
	for _, ta := range a {
		for i, tb := range b {
			if used[i] {
				continue
			}
			if strings.EqualFold(ta.Analyzer, tb.Analyzer) && strings.EqualFold(ta.Rule, tb.Rule) {
				used[i] = true
				continue outer
			}
		}
		return false
	}
	return true
}
