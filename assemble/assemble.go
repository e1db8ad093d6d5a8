// Package assemble provides book assembly orchestration. It walks
// the chapter index in ascending order, pulls each chapter's source
// through the normalizer, applies book-level formatting, maintains
// contiguous page ranges, and emits the combined book text with its
// table of contents and print-diff report.
package assemble

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fwojciec/docbind"
	"github.com/fwojciec/docbind/markdown"
)

// sectionBreak is the fixed-width separator inserted between
// top-level sections and around chapters.
var sectionBreak = strings.Repeat("=", 80)

// Assembler orchestrates one assembly run. All collaborators are
// interfaces owned by the caller; the assembler holds no state
// between runs.
type Assembler struct {
	Chapters   docbind.ChapterStore
	State      docbind.BuildStateStore
	Normalizer docbind.Normalizer
	Files      docbind.FileResolver
	Writer     docbind.BookWriter
	Diff       docbind.DiffEngine

	// Title and Version head the generated book frontmatter.
	Title   string
	Version string

	// Concurrency limits the source prescan. Defaults to 8.
	Concurrency int

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// fileFact holds the immutable per-file facts gathered in phase one.
// Phase two folds facts into the chapter index in a single
// deterministic pass, so no result depends on map iteration order.
type fileFact struct {
	path       string
	raw        string
	hash       string
	normalized *docbind.Normalized
	readErr    error
}

// Run executes one assembly over the current file set.
//
// The run is sequenced ChapterStore -> Normalizer per file ->
// assembly -> BuildStateStore -> DiffEngine. Cancellation is
// cooperative: the context is checked once per chapter boundary and
// on stop everything completed so far is persisted and a
// partial-completion result is returned. Per-item problems accumulate
// as warnings; only a destination-write failure returns an error.
func (a *Assembler) Run(ctx context.Context) (*docbind.Result, error) {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}

	result := &docbind.Result{}

	if err := a.Chapters.Load(ctx); err != nil {
		return nil, err
	}
	state, err := a.State.Load(ctx)
	if err != nil {
		return nil, err
	}
	// Changed flags describe the current run only; the loaded map
	// still carries the previous run's flags.
	state.ChangedChapters = make(map[int]bool)

	paths, err := a.Files.SourceFiles(ctx)
	if err != nil {
		return nil, err
	}

	// Phase one: gather immutable per-file facts. Source reads run
	// concurrently; everything after is strictly sequential.
	facts := a.prescan(ctx, paths)
	for _, fact := range facts {
		if fact.readErr != nil {
			result.Warnings = append(result.Warnings,
				docbind.Warnf(docbind.ENOTFOUND, fact.path, "source unreadable: %v", fact.readErr))
			continue
		}
		n, err := a.Normalizer.Normalize(ctx, fact.raw, fact.path)
		if err != nil {
			result.Warnings = append(result.Warnings,
				docbind.Warnf(docbind.EINTERNAL, fact.path, "normalize failed: %v", err))
			continue
		}
		fact.normalized = n
		result.Warnings = append(result.Warnings, n.Warnings...)
	}

	// Register every readable file with the chapter store before any
	// content is folded, so cross-references see the full index.
	byNumber := make(map[int]*fileFact)
	for _, fact := range facts {
		if fact.normalized == nil {
			continue
		}
		number, warnings, err := a.Chapters.AssignOrLookup(ctx, fact.path, fact.normalized.Meta.Chapter())
		if err != nil {
			return nil, err
		}
		result.Warnings = append(result.Warnings, warnings...)
		byNumber[number] = fact
	}

	index, err := a.Chapters.Index(ctx)
	if err != nil {
		return nil, err
	}

	// Phase two: fold facts into the book in ascending chapter order.
	registry := newCodeRegistry()
	var blocks []string
	currentPage := 1

	for _, number := range index.Numbers() {
		if ctx.Err() != nil {
			return a.stop(ctx, state, result, now())
		}

		info, err := a.Chapters.Chapter(ctx, number)
		if err != nil {
			return nil, err
		}

		fact, ok := byNumber[number]
		if !ok {
			// Source gone or unreadable: skip the chapter, leave its
			// previous page range stale until it resolves.
			result.Skipped++
			result.Warnings = append(result.Warnings,
				docbind.Warnf(docbind.ENOTFOUND, info.SourcePath, "chapter %d source missing; skipped", number))
			continue
		}

		block, pages := a.foldChapter(info, fact, registry, index, currentPage)
		blocks = append(blocks, block)

		if state.Changed(fact.path, fact.hash) {
			state.MarkChapterChanged(number)
		}
		state.MarkProcessed(fact.path, fact.hash)

		if err := a.Chapters.Update(ctx, info); err != nil {
			return nil, err
		}
		// Checkpoint after every completed chapter so an interrupted
		// run leaves a consistent, resumable index.
		if err := a.Chapters.Save(ctx); err != nil {
			return nil, err
		}

		currentPage += pages
		result.Chapters++
	}

	// The index snapshot taken before folding has stale titles and
	// page ranges; the table of contents needs the updated ones.
	index, err = a.Chapters.Index(ctx)
	if err != nil {
		return nil, err
	}

	book := a.compose(index, registry, blocks, now())
	result.TotalPages = currentPage - 1
	if result.TotalPages < 1 {
		result.TotalPages = docbind.EstimatePages(book)
	}

	previous, err := a.State.PreviousBook(ctx)
	if err != nil && docbind.ErrorCode(err) != docbind.ENOTFOUND {
		return nil, err
	}
	result.Ranges = a.Diff.Diff(previous, book)

	if err := a.Writer.WriteBook(ctx, book); err != nil {
		return nil, docbind.Errorf(docbind.EINTERNAL, "write book: %v", err)
	}
	if err := a.Writer.WriteReport(ctx, docbind.FormatPrintReport(result.Ranges, now())); err != nil {
		return nil, docbind.Errorf(docbind.EINTERNAL, "write report: %v", err)
	}

	state.RunID = uuid.New().String()
	state.LastCombined = now()
	state.TotalPages = result.TotalPages
	state.PreviousBookHash = computeHash(book)
	if err := a.State.SavePreviousBook(ctx, book); err != nil {
		return nil, err
	}
	if err := a.State.Save(ctx, state); err != nil {
		return nil, err
	}

	return result, nil
}

// foldChapter formats one chapter's body and updates its page ranges
// so page numbers stay globally contiguous.
func (a *Assembler) foldChapter(info *docbind.ChapterInfo, fact *fileFact, registry *codeRegistry, index docbind.ChapterIndex, startPage int) (string, int) {
	if title := fact.normalized.Meta.Title(); title != "" {
		info.Title = title
	}

	body := fact.normalized.Body
	body = registry.numberBlocks(body, info.Number)
	body = registry.crossReference(body, index)
	body = insertSectionBreaks(body)

	block := fmt.Sprintf("\n\n%s\n\n# Chapter %d: %s <a name=%q></a>\n\n%s\n\n%s\n",
		sectionBreak, info.Number, info.Title, info.Anchor(), body, sectionBreak)

	pages := docbind.EstimatePages(block)
	info.StartPage = startPage
	info.EndPage = startPage + pages - 1
	info.Subsections = subsections(block, info)

	return block, pages
}

// compose joins the generated frontmatter header, table of contents,
// code examples index, and chapter blocks into the final book text.
func (a *Assembler) compose(index docbind.ChapterIndex, registry *codeRegistry, blocks []string, now time.Time) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: " + a.Title + "\n")
	b.WriteString("date: " + now.Format("2006-01-02") + "\n")
	b.WriteString("version: " + a.Version + "\n")
	b.WriteString("---\n\n")
	b.WriteString(tableOfContents(index))
	if idx := registry.index(); idx != "" {
		b.WriteString("\n")
		b.WriteString(idx)
	}
	b.WriteString("\n\n---\n")
	b.WriteString(strings.Join(blocks, ""))
	return b.String()
}

// stop persists everything completed so far and returns a
// partial-completion result.
func (a *Assembler) stop(ctx context.Context, state *docbind.BuildState, result *docbind.Result, now time.Time) (*docbind.Result, error) {
	// Save on a fresh context: the run's context is already done.
	sctx := context.WithoutCancel(ctx)
	state.RunID = uuid.New().String()
	state.LastCombined = now
	if err := a.Chapters.Save(sctx); err != nil {
		return nil, err
	}
	if err := a.State.Save(sctx, state); err != nil {
		return nil, err
	}
	result.Stopped = true
	return result, nil
}

// subsections derives the chapter's subsection page ranges from its
// second-level headings. Ranges are non-decreasing, non-overlapping,
// and clamped to the chapter extent.
func subsections(block string, info *docbind.ChapterInfo) []docbind.Subsection {
	headings := markdown.Headings(block)
	pagesByLine := docbind.PagesByLine(block)

	var subs []docbind.Subsection
	for _, h := range headings {
		if h.Level != 2 {
			continue
		}
		start := info.StartPage + pagesByLine[h.Line] - 1
		if n := len(subs); n > 0 && start < subs[n-1].StartPage {
			start = subs[n-1].StartPage
		}
		subs = append(subs, docbind.Subsection{Title: h.Title, StartPage: start})
	}
	for i := range subs {
		end := info.EndPage
		if i+1 < len(subs) && subs[i+1].StartPage > subs[i].StartPage {
			end = subs[i+1].StartPage - 1
		} else if i+1 < len(subs) {
			end = subs[i].StartPage
		}
		if end < subs[i].StartPage {
			end = subs[i].StartPage
		}
		subs[i].EndPage = end
	}
	return subs
}

// insertSectionBreaks inserts the fixed-width separator before every
// top-level heading after the first.
func insertSectionBreaks(body string) string {
	lines := strings.Split(body, "\n")
	inFence := false
	seen := false
	var out []string
	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inFence = !inFence
		}
		if !inFence && strings.HasPrefix(line, "# ") {
			if seen {
				out = append(out, "", sectionBreak, "")
			}
			seen = true
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
