package docbind

import (
	"fmt"
	"strings"
	"time"
)

// PrintRange is one contiguous block of reprint-worthy pages.
type PrintRange struct {
	StartPage int
	EndPage   int
}

// String formats the range for display.
func (r PrintRange) String() string {
	return fmt.Sprintf("Pages %d-%d", r.StartPage, r.EndPage)
}

// MergePages collapses a set of changed page numbers into the minimal
// ordered list of contiguous ranges. Adjacent or overlapping pages
// collapse into one range; a one-page gap keeps ranges separate.
// Pages must be sorted ascending and may contain duplicates.
func MergePages(pages []int) []PrintRange {
	var ranges []PrintRange
	for _, p := range pages {
		if n := len(ranges); n > 0 && p <= ranges[n-1].EndPage+1 {
			if p > ranges[n-1].EndPage {
				ranges[n-1].EndPage = p
			}
			continue
		}
		ranges = append(ranges, PrintRange{StartPage: p, EndPage: p})
	}
	return ranges
}

// FormatPrintReport renders the human-readable print updates guide:
// a date header followed by one changed page range per line. An empty
// range list states that nothing needs reprinting.
func FormatPrintReport(ranges []PrintRange, date time.Time) string {
	var b strings.Builder
	b.WriteString("# Print Updates Guide\n\n")
	b.WriteString("Date: " + date.Format("2006-01-02") + "\n\n")
	b.WriteString("## Pages to Print\n\n")
	if len(ranges) == 0 {
		b.WriteString("No pages changed.\n")
		return b.String()
	}
	for _, r := range ranges {
		sheets := FoldToSheets(r)
		fmt.Fprintf(&b, "- %s (sheets %d-%d)\n", r, sheets.StartPage, sheets.EndPage)
	}
	return b.String()
}

// DiffEngine compares two versions of the assembled book and returns
// the ordered page ranges that changed. It is a change detector, not
// a renderer of line-level patches: unchanged content never appears
// in the output.
type DiffEngine interface {
	Diff(previous, current string) []PrintRange
}
