// Package diff compares two versions of the assembled book text and
// reports which estimated pages changed, so a human can reprint only
// those. It is a change detector over the page model, not a patch
// renderer.
package diff

import (
	"sort"
	"strings"

	"github.com/fwojciec/docbind"
)

// Ensure Engine implements docbind.DiffEngine at compile time.
var _ docbind.DiffEngine = (*Engine)(nil)

// maxAlignLines caps the longest-common-subsequence window. When the
// changed region between the common prefix and suffix exceeds the
// cap on either side, the whole window is reported as changed rather
// than aligned line by line. Over-reporting is acceptable for a
// print diff; quadratic blowups are not.
const maxAlignLines = 4096

// Engine computes changed page ranges between two book versions
// using line-based alignment mapped through the page estimator.
type Engine struct{}

// New returns a new Engine.
func New() *Engine {
	return &Engine{}
}

// Diff returns the ordered, merged page ranges that differ between
// the previous and current book text. Identical inputs yield an
// empty list; an empty previous version yields one range covering
// the whole current book.
func (e *Engine) Diff(previous, current string) []docbind.PrintRange {
	if previous == current {
		return nil
	}
	if previous == "" {
		return []docbind.PrintRange{{StartPage: 1, EndPage: docbind.EstimatePages(current)}}
	}

	prevLines := strings.Split(previous, "\n")
	currLines := strings.Split(current, "\n")
	pagesByLine := docbind.PagesByLine(current)

	changed := changedLines(prevLines, currLines)
	if len(changed) == 0 {
		return nil
	}

	pages := make([]int, 0, len(changed))
	for _, line := range changed {
		if line >= len(pagesByLine) {
			line = len(pagesByLine) - 1
		}
		if line < 0 {
			line = 0
		}
		pages = append(pages, pagesByLine[line])
	}
	sort.Ints(pages)
	return docbind.MergePages(pages)
}

// changedLines returns the current-side line indices touched by
// insertions, modifications, or deletions. A deletion is attributed
// to the current line at the position where content was removed.
func changedLines(prev, curr []string) []int {
	// Trim the common prefix and suffix so alignment only runs over
	// the region that can actually differ.
	start := 0
	for start < len(prev) && start < len(curr) && prev[start] == curr[start] {
		start++
	}
	endPrev, endCurr := len(prev), len(curr)
	for endPrev > start && endCurr > start && prev[endPrev-1] == curr[endCurr-1] {
		endPrev--
		endCurr--
	}

	prevMid := prev[start:endPrev]
	currMid := curr[start:endCurr]
	if len(prevMid) == 0 && len(currMid) == 0 {
		return nil
	}

	if len(prevMid) > maxAlignLines || len(currMid) > maxAlignLines {
		return windowLines(start, endCurr, len(curr))
	}

	var changed []int
	mark := func(line int) {
		if line >= len(curr) {
			line = len(curr) - 1
		}
		if line < 0 {
			line = 0
		}
		changed = append(changed, line)
	}

	// Longest-common-subsequence alignment over the middle window.
	n, m := len(prevMid), len(currMid)
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if prevMid[i] == currMid[j] {
				dp[i][j] = dp[i+1][j+1] + 1
			} else if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}

	i, j := 0, 0
	for i < n && j < m {
		switch {
		case prevMid[i] == currMid[j]:
			i++
			j++
		case dp[i+1][j] >= dp[i][j+1]:
			// Line deleted from the previous version.
			mark(start + j)
			i++
		default:
			// Line inserted or modified in the current version.
			mark(start + j)
			j++
		}
	}
	for ; j < m; j++ {
		mark(start + j)
	}
	if i < n {
		// Trailing deletion with nothing left on the current side.
		mark(start + m - 1)
	}
	return changed
}

// windowLines returns every current-side line index in [start, end).
func windowLines(start, end, total int) []int {
	if end > total {
		end = total
	}
	if start >= end {
		// The suffix trim can consume the whole current side; fall
		// back to the nearest surviving line.
		start = end - 1
	}
	if start < 0 {
		start = 0
	}
	if end <= start {
		end = start + 1
	}
	lines := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, i)
	}
	return lines
}
