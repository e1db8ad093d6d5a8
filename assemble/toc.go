package assemble

import (
	"fmt"
	"strings"

	"github.com/fwojciec/docbind"
	"github.com/fwojciec/docbind/markdown"
)

// tableOfContents renders the table of contents by walking the final
// chapter index in ascending order, one entry per chapter and one per
// subsection, each linking to its anchor.
func tableOfContents(index docbind.ChapterIndex) string {
	var b strings.Builder
	b.WriteString("# Table of Contents\n")
	for _, n := range index.Numbers() {
		info := index[n]
		fmt.Fprintf(&b, "\n- [Chapter %d: %s](#%s) (Page %d)",
			info.Number, info.Title, info.Anchor(), info.StartPage)
		for _, sub := range info.Subsections {
			fmt.Fprintf(&b, "\n  - [%s](#%s) (Page %d)",
				sub.Title, markdown.Anchor(sub.Title), sub.StartPage)
		}
	}
	b.WriteString("\n")
	return b.String()
}
