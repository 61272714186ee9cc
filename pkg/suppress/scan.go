package suppress

import (
	"github.com/shushd/shush/pkg/types"
)

// stopRec tracks a stop directive seen during a backward walk. Stops are
// recorded in walk order (descending line) and consumed at most once, by the
// nearest start directive below them with a matching target set.
type stopRec struct {
	line     int
	targets  []types.Target
	consumed bool
}

// scanTo walks backward from queryLine toward the watermark, classifying
// each line and resolving directives into intervals. On success the
// watermark advances to queryLine and discovered intervals are committed.
//
// Scanning backward rather than forward from line 1 is what makes queries
// cheap: the walk is bounded by the previous watermark, and an inline
// directive on the query line itself answers immediately. When that inline
// short-circuit fires (it covers the queried analyzer/rule), scanTo commits
// only the inline interval, leaves the watermark untouched, and returns true.
//
// A line read failure aborts the walk with no state committed.
// shortCircuit is false for full-file scans, which must visit every line.
// Called with st.mu held.
func (m *Manager) scanTo(st *fileState, id types.FileID, queryLine int, analyzer, rule string, shortCircuit bool) (bool, error) {
	count, err := m.accessor.LineCount(id)
	if err != nil {
		return false, err
	}

	// Diagnostics can point past end of file (e.g. "missing final newline");
	// there is nothing to read there.
	top := queryLine
	if top > count {
		top = count
	}

	var stops []stopRec
	var found []types.IgnoreInterval

	for n := top; n > st.watermark; n-- {
		text, err := m.accessor.Line(id, n)
		if err != nil {
			return false, err
		}

		d := m.matcher.Match(text)
		if d == nil {
			continue
		}

		switch d.Kind {
		case types.KindInline:
			iv := types.IgnoreInterval{
				Origin:    types.KindInline,
				StartLine: n,
				EndLine:   n,
				Targets:   d.Targets,
			}
			if shortCircuit && n == queryLine && iv.Covers(analyzer, rule) {
				// Most specific answer wins; abandon the walk. Lines below
				// n stay unresolved, so the watermark must not move.
				st.addInterval(iv)
				st.dirty = true
				return true, nil
			}
			found = append(found, iv)

		case types.KindStop:
			stops = append(stops, stopRec{line: n, targets: d.Targets})

		case types.KindStart:
			// Pair with the nearest stop above this line (the most recently
			// recorded unconsumed one) that closes this target set.
			end := types.OpenEnd
			for i := len(stops) - 1; i >= 0; i-- {
				if stops[i].consumed || !stopCloses(stops[i].targets, d.Targets) {
					continue
				}
				end = stops[i].line
				stops[i].consumed = true
				break
			}
			found = append(found, types.IgnoreInterval{
				Origin:    types.KindStart,
				StartLine: n,
				EndLine:   end,
				Targets:   d.Targets,
			})
		}
	}

	// Stops left unconsumed may close regions opened below the old
	// watermark by an earlier, shorter scan.
	for i := range stops {
		if !stops[i].consumed {
			st.closeOpenInterval(stops[i].line, stops[i].targets)
		}
	}

	for _, iv := range found {
		st.addInterval(iv)
	}
	if queryLine > st.watermark {
		st.watermark = queryLine
		st.dirty = true
	}

	return false, nil
}

// stopCloses reports whether a stop directive with stopTargets closes a
// start directive with startTargets. A bare stop ("stop ignoring") closes
// any region; otherwise the target sets must name the same targets.
func stopCloses(stopTargets, startTargets []types.Target) bool {
	if len(stopTargets) == 0 {
		return true
	}
	return types.TargetsEqual(stopTargets, startTargets)
}

// addInterval appends an interval unless an identical one is already known.
// Overlapping scans rediscover intervals; state must not accumulate copies.
// Called with st.mu held.
func (st *fileState) addInterval(iv types.IgnoreInterval) {
	for _, got := range st.intervals {
		if got.Equal(iv) {
			return
		}
	}
	st.intervals = append(st.intervals, iv)
}

// closeOpenInterval caps the nearest open start region below stopLine whose
// target set the stop closes. Called with st.mu held.
func (st *fileState) closeOpenInterval(stopLine int, stopTargets []types.Target) {
	best := -1
	for i, iv := range st.intervals {
		if iv.Origin != types.KindStart || !iv.Open() {
			continue
		}
		if iv.StartLine >= stopLine {
			continue
		}
		if !stopCloses(stopTargets, iv.Targets) {
			continue
		}
		if best == -1 || iv.StartLine > st.intervals[best].StartLine {
			best = i
		}
	}
	if best >= 0 {
		st.intervals[best].EndLine = stopLine
		st.dirty = true
	}
}
