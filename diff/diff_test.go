package diff_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fwojciec/docbind"
	"github.com/fwojciec/docbind/diff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// book builds n lines of distinct significant content.
func book(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	return lines
}

func TestEngine_Diff(t *testing.T) {
	t.Parallel()

	engine := diff.New()

	t.Run("identical versions change nothing", func(t *testing.T) {
		t.Parallel()

		text := strings.Join(book(100), "\n")
		assert.Empty(t, engine.Diff(text, text))
	})

	t.Run("no previous version covers the whole book", func(t *testing.T) {
		t.Parallel()

		text := strings.Join(book(100), "\n")
		got := engine.Diff("", text)

		require.Len(t, got, 1)
		assert.Equal(t, docbind.PrintRange{StartPage: 1, EndPage: docbind.EstimatePages(text)}, got[0])
	})

	t.Run("single line edit touches one page", func(t *testing.T) {
		t.Parallel()

		prev := book(100)
		curr := book(100)
		curr[50] = "line 50 edited" // page 2

		got := engine.Diff(strings.Join(prev, "\n"), strings.Join(curr, "\n"))

		assert.Equal(t, []docbind.PrintRange{{StartPage: 2, EndPage: 2}}, got)
	})

	t.Run("distant edits keep separate ranges", func(t *testing.T) {
		t.Parallel()

		prev := book(150)
		curr := book(150)
		curr[2] = "edited early"   // page 1
		curr[140] = "edited late"  // page 4

		got := engine.Diff(strings.Join(prev, "\n"), strings.Join(curr, "\n"))

		assert.Equal(t, []docbind.PrintRange{
			{StartPage: 1, EndPage: 1},
			{StartPage: 4, EndPage: 4},
		}, got)
	})

	t.Run("insertion marks the page of the new lines", func(t *testing.T) {
		t.Parallel()

		prev := book(40)
		curr := append(book(40), "appended one", "appended two")

		got := engine.Diff(strings.Join(prev, "\n"), strings.Join(curr, "\n"))

		assert.Equal(t, []docbind.PrintRange{{StartPage: 1, EndPage: 1}}, got)
	})

	t.Run("deletion is attributed to the current side", func(t *testing.T) {
		t.Parallel()

		prev := book(100)
		curr := append(append([]string{}, prev[:50]...), prev[52:]...)

		got := engine.Diff(strings.Join(prev, "\n"), strings.Join(curr, "\n"))

		require.Len(t, got, 1)
		assert.Equal(t, 2, got[0].StartPage)
		assert.Equal(t, 2, got[0].EndPage)
	})

	t.Run("oversized deletion leaving only a shared tail", func(t *testing.T) {
		t.Parallel()

		// The suffix trim consumes the whole current side, so the
		// fallback window has nothing left to point at.
		prev := strings.Join(append(book(5000), "shared tail"), "\n")
		curr := "shared tail"

		got := engine.Diff(prev, curr)

		assert.Equal(t, []docbind.PrintRange{{StartPage: 1, EndPage: 1}}, got)
	})

	t.Run("oversized change window falls back to whole-window ranges", func(t *testing.T) {
		t.Parallel()

		prev := book(5000)
		curr := book(5000)
		for i := range curr {
			curr[i] = fmt.Sprintf("rewritten %d", i)
		}

		got := engine.Diff(strings.Join(prev, "\n"), strings.Join(curr, "\n"))

		require.Len(t, got, 1)
		assert.Equal(t, 1, got[0].StartPage)
		assert.Equal(t, docbind.EstimatePages(strings.Join(curr, "\n")), got[0].EndPage)
	})
}
