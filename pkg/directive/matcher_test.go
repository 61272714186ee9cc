package directive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shushd/shush/pkg/types"
)

func TestMatchBuiltinGrammar(t *testing.T) {
	tests := []struct {
		name string
		line string
		want *types.Directive
	}{
		{
			name: "bare inline ignore",
			line: "x = 1  # ignore",
			want: &types.Directive{Kind: types.KindInline},
		},
		{
			name: "inline with analyzer",
			line: "# ignore flake8",
			want: &types.Directive{Kind: types.KindInline, Targets: []types.Target{{Analyzer: "flake8"}}},
		},
		{
			name: "inline with qualified target",
			line: "# ignore flake8(E501)",
			want: &types.Directive{Kind: types.KindInline, Targets: []types.Target{{Analyzer: "flake8", Rule: "E501"}}},
		},
		{
			name: "start ignoring",
			line: "# start ignoring pylint",
			want: &types.Directive{Kind: types.KindStart, Targets: []types.Target{{Analyzer: "pylint"}}},
		},
		{
			name: "stop ignoring",
			line: "# stop ignoring pylint",
			want: &types.Directive{Kind: types.KindStop, Targets: []types.Target{{Analyzer: "pylint"}}},
		},
		{
			name: "start ignoring all",
			line: "// start ignoring all",
			want: &types.Directive{Kind: types.KindStart, Targets: []types.Target{{Analyzer: "all"}}},
		},
		{
			name: "case insensitive",
			line: "# Start Ignoring PyLint",
			want: &types.Directive{Kind: types.KindStart, Targets: []types.Target{{Analyzer: "PyLint"}}},
		},
		{
			name: "multiple targets without separators",
			line: "# ignore flake8(E501) pylint mypy(no-untyped-def)",
			want: &types.Directive{Kind: types.KindInline, Targets: []types.Target{
				{Analyzer: "flake8", Rule: "E501"},
				{Analyzer: "pylint"},
				{Analyzer: "mypy", Rule: "no-untyped-def"},
			}},
		},
		{
			name: "ignoring without keyword is inline",
			line: "# ignoring mypy",
			want: &types.Directive{Kind: types.KindInline, Targets: []types.Target{{Analyzer: "mypy"}}},
		},
		{
			name: "plain code line",
			line: "result = compute(x, y)",
			want: nil,
		},
		{
			name: "ignore inside a word does not match",
			line: "signore = 'italian'",
			want: nil,
		},
		{
			name: "empty line",
			line: "",
			want: nil,
		},
		{
			name: "unterminated qualifier drops the token",
			line: "# ignore flake8(E501",
			want: &types.Directive{Kind: types.KindInline},
		},
		{
			name: "unterminated qualifier keeps earlier targets",
			line: "# ignore pylint flake8(E501",
			want: &types.Directive{Kind: types.KindInline, Targets: []types.Target{{Analyzer: "pylint"}}},
		},
	}

	m := NewMatcher(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Match(tt.line)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatchIsMemoized(t *testing.T) {
	m := NewMatcher(nil)

	first := m.Match("# ignore flake8")
	second := m.Match("# ignore flake8")
	assert.Same(t, first, second, "repeated lines should return the memoized directive")
}

func TestLoadGrammarCustomMarkers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grammar.yaml")
	grammarYAML := `markers:
  - kind: inline
    pattern: 'noqa[:\s]*(.*)$'
  - kind: start
    pattern: 'suppression-begin\s+(.*)$'
`
	require.NoError(t, os.WriteFile(path, []byte(grammarYAML), 0644))

	g, err := LoadGrammar(path)
	require.NoError(t, err)
	m := NewMatcher(g)

	d := m.Match("x = 1  # noqa: flake8(E501)")
	require.NotNil(t, d)
	assert.Equal(t, types.KindInline, d.Kind)
	assert.Equal(t, []types.Target{{Analyzer: "flake8", Rule: "E501"}}, d.Targets)

	d = m.Match("# suppression-begin pylint")
	require.NotNil(t, d)
	assert.Equal(t, types.KindStart, d.Kind)

	// Builtin grammar stays active alongside custom markers.
	d = m.Match("# start ignoring mypy")
	require.NotNil(t, d)
	assert.Equal(t, types.KindStart, d.Kind)
}

func TestLoadGrammarErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadGrammar(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	badKind := filepath.Join(dir, "badkind.yaml")
	require.NoError(t, os.WriteFile(badKind, []byte("markers:\n  - kind: sideways\n    pattern: 'x'\n"), 0644))
	_, err = LoadGrammar(badKind)
	assert.Error(t, err)

	badPattern := filepath.Join(dir, "badpattern.yaml")
	require.NoError(t, os.WriteFile(badPattern, []byte("markers:\n  - kind: inline\n    pattern: '('\n"), 0644))
	_, err = LoadGrammar(badPattern)
	assert.Error(t, err)
}
