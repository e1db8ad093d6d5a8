package docbind

import "context"

// ImageRef pairs a remote image URL with the local relative path it
// was rewritten to. The set of references grows monotonically across
// a run and never shrinks.
type ImageRef struct {
	RemoteURL string
	LocalPath string
}

// FileResolver supplies the assembler with source files. The archive
// layout and any parallel pre-fetching of file contents are the
// resolver's concern; the core only sees paths and text.
type FileResolver interface {
	// SourceFiles returns all source file paths, sorted.
	SourceFiles(ctx context.Context) ([]string, error)

	// ReadSource returns the raw text of one source file.
	// Returns ENOTFOUND if the file is missing or unreadable.
	ReadSource(ctx context.Context, path string) (string, error)
}

// ImageResolver maps a remote image URL to a stable local relative
// path. Returns ENOTFOUND when the image cannot be resolved, in
// which case the original remote URL is left in place.
type ImageResolver interface {
	ResolveImage(ctx context.Context, remoteURL string) (string, error)
}

// LinkResolver maps an internal link target, relative to the linking
// file, to its canonical path in the output tree. ok is false when
// the target does not resolve to a known output file.
type LinkResolver interface {
	ResolveLink(fromPath, target string) (path string, ok bool)
}

// BookWriter persists assembled output. A write failure is the only
// fatal error in the core: it aborts the run.
type BookWriter interface {
	// WriteBook persists the assembled book text.
	WriteBook(ctx context.Context, text string) error

	// WriteReport persists the human-readable print-diff report.
	WriteReport(ctx context.Context, report string) error
}

// Result holds the outcome of one assembly run. A completed run
// always reports its counts, even when some inputs were defective.
type Result struct {
	// Chapters is the number of chapters folded into the book.
	Chapters int

	// Skipped is the number of chapters skipped because their source
	// file was missing or unreadable.
	Skipped int

	// Warnings accumulates every recoverable per-item problem.
	Warnings []Warning

	// TotalPages is the estimated page count of the assembled book.
	TotalPages int

	// Ranges lists the page ranges that changed since the previous
	// build, in ascending order.
	Ranges []PrintRange

	// Stopped reports partial completion: the run was cancelled at a
	// chapter boundary after persisting everything completed so far.
	Stopped bool
}
