package docbind

import "strings"

// Pagination model constants. The estimator is deliberately
// approximate: it counts significant lines against a fixed
// lines-per-page budget and is not a typesetting engine.
const (
	// LinesPerPage is the estimated number of significant lines that
	// fit on one printed page.
	LinesPerPage = 45

	// PagesPerSheet is the number of book pages printed per physical
	// sheet. Folding applies only to print-range reporting, never to
	// stored page numbers.
	PagesPerSheet = 2
)

// EstimatePages returns the estimated printed page count for text.
// The result is always at least 1 and is monotonic: appending
// non-empty content never decreases the estimate.
func EstimatePages(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		if SignificantLine(line) {
			count++
		}
	}
	return pageOfCount(count)
}

// PagesByLine maps each line of text to its estimated page number.
// Insignificant lines inherit the page of the significant content
// they follow.
func PagesByLine(text string) []int {
	lines := strings.Split(text, "\n")
	pages := make([]int, len(lines))
	count := 0
	for i, line := range lines {
		if SignificantLine(line) {
			count++
		}
		pages[i] = pageOfCount(count)
	}
	return pages
}

// SignificantLine reports whether a line counts toward the page
// estimate. Blank lines and pure separator lines do not.
func SignificantLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	return strings.Trim(trimmed, "=-_*") != ""
}

// FoldToSheets converts a page range to the physical sheet range that
// covers it.
func FoldToSheets(r PrintRange) PrintRange {
	return PrintRange{
		StartPage: (r.StartPage + PagesPerSheet - 1) / PagesPerSheet,
		EndPage:   (r.EndPage + PagesPerSheet - 1) / PagesPerSheet,
	}
}

func pageOfCount(count int) int {
	if count <= 0 {
		return 1
	}
	return (count + LinesPerPage - 1) / LinesPerPage
}
