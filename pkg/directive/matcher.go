package directive

import (
	"sync"

	"github.com/shushd/shush/pkg/types"
)

// maxMemoEntries bounds the per-line memo cache. Source files repeat few
// distinct directive lines, so the cap is generous.
const maxMemoEntries = 1 << 16

// Matcher classifies lines of text against a grammar. Matching is pure and
// safe for concurrent use; results for distinct line strings are memoized.
// Returned directives are shared across callers and must not be mutated.
type Matcher struct {
	grammar *Grammar

	mu   sync.RWMutex
	memo map[string]*types.Directive
}

// NewMatcher creates a matcher for the given grammar.
// A nil grammar selects the builtin grammar.
func NewMatcher(g *Grammar) *Matcher {
	if g == nil {
		g = Default()
	}
	return &Matcher{
		grammar: g,
		memo:    make(map[string]*types.Directive),
	}
}

// Match parses a line into a directive, or nil when the line holds none.
func (m *Matcher) Match(line string) *types.Directive {
	m.mu.RLock()
	d, ok := m.memo[line]
	m.mu.RUnlock()
	if ok {
		return d
	}

	d = m.grammar.Match(line)

	m.mu.Lock()
	if len(m.memo) < maxMemoEntries {
		m.memo[line] = d
	}
	m.mu.Unlock()

	return d
}
