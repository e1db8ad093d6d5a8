package docbind_test

import (
	"testing"
	"time"

	"github.com/fwojciec/docbind"
	"github.com/stretchr/testify/assert"
)

func TestMergePages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		pages []int
		want  []docbind.PrintRange
	}{
		{
			name:  "empty input",
			pages: nil,
			want:  nil,
		},
		{
			name:  "single page",
			pages: []int{3},
			want:  []docbind.PrintRange{{StartPage: 3, EndPage: 3}},
		},
		{
			name:  "contiguous pages collapse",
			pages: []int{1, 2, 3},
			want:  []docbind.PrintRange{{StartPage: 1, EndPage: 3}},
		},
		{
			name:  "adjacent pages merge",
			pages: []int{1, 2},
			want:  []docbind.PrintRange{{StartPage: 1, EndPage: 2}},
		},
		{
			name:  "one-page gap stays separate",
			pages: []int{1, 3},
			want: []docbind.PrintRange{
				{StartPage: 1, EndPage: 1},
				{StartPage: 3, EndPage: 3},
			},
		},
		{
			name:  "duplicates collapse",
			pages: []int{2, 2, 3, 3},
			want:  []docbind.PrintRange{{StartPage: 2, EndPage: 3}},
		},
		{
			name:  "mixed runs and gaps",
			pages: []int{1, 2, 5, 6, 7, 10},
			want: []docbind.PrintRange{
				{StartPage: 1, EndPage: 2},
				{StartPage: 5, EndPage: 7},
				{StartPage: 10, EndPage: 10},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, docbind.MergePages(tt.pages))
		})
	}
}

func TestPrintRange_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Pages 3-5", docbind.PrintRange{StartPage: 3, EndPage: 5}.String())
}

func TestFormatPrintReport(t *testing.T) {
	t.Parallel()

	date := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("lists changed ranges with sheets", func(t *testing.T) {
		t.Parallel()

		report := docbind.FormatPrintReport([]docbind.PrintRange{
			{StartPage: 3, EndPage: 5},
			{StartPage: 9, EndPage: 9},
		}, date)

		assert.Contains(t, report, "# Print Updates Guide")
		assert.Contains(t, report, "Date: 2026-08-30")
		assert.Contains(t, report, "- Pages 3-5 (sheets 2-3)")
		assert.Contains(t, report, "- Pages 9-9 (sheets 5-5)")
	})

	t.Run("states when nothing changed", func(t *testing.T) {
		t.Parallel()

		report := docbind.FormatPrintReport(nil, date)

		assert.Contains(t, report, "No pages changed.")
		assert.NotContains(t, report, "- Pages")
	})
}
