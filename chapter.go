package docbind

import (
	"context"
	"fmt"
	"sort"
)

// Subsection represents one titled span of pages within a chapter.
type Subsection struct {
	Title     string `json:"title"`
	StartPage int    `json:"start_page"`
	EndPage   int    `json:"end_page"`
}

// ChapterInfo represents one numbered, ordered unit of the assembled
// book. A chapter number is stable across runs once assigned and is
// never reused for a different source file. Page fields are estimates
// maintained by the assembler; they are updated every time the
// chapter's content changes.
type ChapterInfo struct {
	Number      int          `json:"number"`
	Title       string       `json:"title"`
	SourcePath  string       `json:"source_path"`
	StartPage   int          `json:"start_page"`
	EndPage     int          `json:"end_page"`
	Subsections []Subsection `json:"subsections"`
}

// Validate returns an error if the chapter contains invalid fields.
func (c *ChapterInfo) Validate() error {
	if c.Number <= 0 {
		return Errorf(EINVALID, "chapter number must be positive")
	}
	if c.Title == "" {
		return Errorf(EINVALID, "chapter title required")
	}
	if c.EndPage != 0 && c.EndPage < c.StartPage {
		return Errorf(EINVALID, "chapter %d end page precedes start page", c.Number)
	}
	return nil
}

// Anchor returns the in-book anchor name for the chapter.
func (c *ChapterInfo) Anchor() string {
	return fmt.Sprintf("chapter-%d", c.Number)
}

// ChapterIndex maps chapter numbers to chapter metadata. It is the
// single source of truth for ordering in the assembled book.
type ChapterIndex map[int]*ChapterInfo

// Numbers returns all chapter numbers in ascending order.
func (idx ChapterIndex) Numbers() []int {
	numbers := make([]int, 0, len(idx))
	for n := range idx {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}

// NumberForPath returns the chapter number already assigned to the
// given source path, if any.
func (idx ChapterIndex) NumberForPath(path string) (int, bool) {
	for n, info := range idx {
		if info.SourcePath == path {
			return n, true
		}
	}
	return 0, false
}

// Clone returns a deep copy of the index.
func (idx ChapterIndex) Clone() ChapterIndex {
	out := make(ChapterIndex, len(idx))
	for n, info := range idx {
		c := *info
		c.Subsections = append([]Subsection(nil), info.Subsections...)
		out[n] = &c
	}
	return out
}

// Assign returns the chapter number for a source path, creating a new
// chapter if the path has not been seen before.
//
// Precedence: a number already assigned to the same path is returned
// unchanged (idempotence across runs); an explicit number carried in
// the file's frontmatter is authoritative unless it collides with a
// different file, in which case the newer file is renumbered within
// its classified band and a conflict warning is recorded; otherwise
// the path is classified into a band and receives the next free
// integer in that band.
func (idx ChapterIndex) Assign(path string, explicit int, rules Rules) (int, []Warning) {
	if n, ok := idx.NumberForPath(path); ok {
		return n, nil
	}

	var warnings []Warning

	if explicit > 0 {
		existing, taken := idx[explicit]
		if !taken {
			idx[explicit] = &ChapterInfo{
				Number:     explicit,
				Title:      fmt.Sprintf("Chapter %d", explicit),
				SourcePath: path,
			}
			return explicit, nil
		}
		warnings = append(warnings, Warnf(ECONFLICT, path,
			"chapter %d already assigned to %s; renumbering", explicit, existing.SourcePath))
	}

	band := rules.Classify(path)
	n, overflowed := idx.nextFree(band)
	if overflowed {
		warnings = append(warnings, Warnf(EINVALID, path,
			"band %s exhausted; assigned %d outside band", band, n))
	}

	idx[n] = &ChapterInfo{
		Number:     n,
		Title:      fmt.Sprintf("Chapter %d", n),
		SourcePath: path,
	}
	return n, warnings
}

// nextFree returns the lowest unassigned number in the band. When a
// bounded band is full the scan continues past its upper bound and
// overflowed reports true.
func (idx ChapterIndex) nextFree(band Band) (n int, overflowed bool) {
	n = band.Base()
	for {
		if _, taken := idx[n]; !taken {
			return n, band.Max() > 0 && n > band.Max()
		}
		n++
	}
}

// ChapterStore owns the durable chapter index. Implementations load
// the index from storage on Load, mutate the in-memory copy through
// AssignOrLookup and Update, and persist it on Save. A missing or
// corrupt store loads as an empty index rather than failing.
type ChapterStore interface {
	// AssignOrLookup returns the chapter number for a source path,
	// assigning a new one if needed. The explicit argument carries a
	// chapter number found in the file's frontmatter, or 0.
	// Identity conflicts are reported as warnings, never as errors.
	AssignOrLookup(ctx context.Context, path string, explicit int) (int, []Warning, error)

	// Chapter returns the chapter with the given number.
	// Returns ENOTFOUND if no such chapter exists.
	Chapter(ctx context.Context, number int) (*ChapterInfo, error)

	// Index returns a copy of the full chapter index.
	Index(ctx context.Context) (ChapterIndex, error)

	// Update replaces the stored metadata for an existing chapter.
	// Returns ENOTFOUND if the chapter does not exist.
	Update(ctx context.Context, info *ChapterInfo) error

	// Prune removes chapters whose source file no longer exists,
	// as judged by the exists callback. Returns removed numbers.
	Prune(ctx context.Context, exists func(path string) bool) ([]int, error)

	// Load reads the index from durable storage.
	Load(ctx context.Context) error

	// Save writes the index to durable storage.
	Save(ctx context.Context) error
}
