package directive

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"gopkg.in/yaml.v3"

	"github.com/shushd/shush/pkg/types"
)

// Builtin grammar, case-insensitive:
//
//	[start|stop] ignor(e|ing) <targets>
//
// Absence of the leading keyword yields an inline directive. Targets are
// identifier tokens with an optional parenthesized rule qualifier, found by
// repeated matching; no strict delimiter grammar.
var (
	directiveRe = regexp.MustCompile(`(?i)(?:\b(start|stop)\s+)?\bignor(?:e|ing)\b[:\s]*(.*)$`)
	identRe     = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_.-]*`)
)

// Grammar recognizes directives in a line of text. The builtin grammar is
// always active; custom markers loaded from YAML are tried first, so a
// project can teach the matcher foreign conventions (noqa, nolint, ...)
// without touching the range manager.
type Grammar struct {
	markers []marker
}

// marker is one user-supplied directive pattern. The pattern's first capture
// group, if any, is the target list text.
type marker struct {
	kind types.DirectiveKind
	re   *regexp2.Regexp
}

// yamlMarker is the intermediate struct for one custom marker entry.
type yamlMarker struct {
	Kind    string `yaml:"kind"`
	Pattern string `yaml:"pattern"`
}

// yamlGrammarFile represents the top-level structure of a grammar YAML file.
type yamlGrammarFile struct {
	Markers []yamlMarker `yaml:"markers"`
}

// Default returns the builtin grammar with no custom markers.
func Default() *Grammar {
	return &Grammar{}
}

// LoadGrammar reads custom markers from a YAML file and returns a grammar
// that tries them before the builtin forms. Custom patterns may use
// Perl-style regex features.
func LoadGrammar(path string) (*Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading grammar file: %w", err)
	}

	var file yamlGrammarFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing grammar file %s: %w", path, err)
	}

	g := &Grammar{}
	for i, ym := range file.Markers {
		var kind types.DirectiveKind
		switch strings.ToLower(ym.Kind) {
		case "start":
			kind = types.KindStart
		case "stop":
			kind = types.KindStop
		case "inline":
			kind = types.KindInline
		default:
			return nil, fmt.Errorf("marker %d: unknown kind %q (want start, stop, or inline)", i, ym.Kind)
		}

		re, err := regexp2.Compile(ym.Pattern, regexp2.IgnoreCase)
		if err != nil {
			return nil, fmt.Errorf("marker %d: compiling pattern %q: %w", i, ym.Pattern, err)
		}
		// Guard against catastrophic backtracking in user patterns
		re.MatchTimeout = 5 * time.Second

		g.markers = append(g.markers, marker{kind: kind, re: re})
	}

	return g, nil
}

// Match parses a line of text into a directive, or nil when the line holds
// no recognizable directive. Malformed input is a non-match, never an error.
func (g *Grammar) Match(line string) *types.Directive {
	for _, mk := range g.markers {
		m, err := mk.re.FindStringMatch(line)
		if err != nil || m == nil {
			continue
		}
		var rest string
		if groups := m.Groups(); len(groups) > 1 && len(groups[1].Captures) > 0 {
			rest = groups[1].Captures[0].String()
		}
		return &types.Directive{Kind: mk.kind, Targets: parseTargets(rest)}
	}

	m := directiveRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}

	kind := types.KindInline
	switch strings.ToLower(m[1]) {
	case "start":
		kind = types.KindStart
	case "stop":
		kind = types.KindStop
	}

	return &types.Directive{Kind: kind, Targets: parseTargets(m[2])}
}

// parseTargets extracts target tokens from the free text after the keyword.
// Tokens are found by repeated matching: identifier, optionally followed
// immediately by a parenthesized rule qualifier. An unterminated qualifier
// invalidates the remainder of the token text rather than producing bogus
// targets.
func parseTargets(s string) []types.Target {
	var targets []types.Target
	for i := 0; i < len(s); {
		loc := identRe.FindStringIndex(s[i:])
		if loc == nil {
			break
		}
		start, end := i+loc[0], i+loc[1]
		name := s[start:end]

		if end < len(s) && s[end] == '(' {
			close := strings.IndexByte(s[end:], ')')
			if close < 0 {
				// Unterminated qualifier; the surrounding text is not a target.
				break
			}
			rule := strings.TrimSpace(s[end+1 : end+close])
			targets = append(targets, types.Target{Analyzer: name, Rule: rule})
			i = end + close + 1
			continue
		}

		targets = append(targets, types.Target{Analyzer: name})
		i = end
	}
	return targets
}
