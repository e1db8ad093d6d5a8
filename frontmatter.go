package docbind

import (
	"context"
	"strconv"
)

// FrontmatterKind tags how a file's metadata block was obtained.
// The variant is explicit in the return type rather than inferred
// from parse failures along the way.
type FrontmatterKind int

const (
	// FrontmatterEmpty means no usable metadata block was found; the
	// entire input is body text.
	FrontmatterEmpty FrontmatterKind = iota

	// FrontmatterParsed means the block parsed as well-formed YAML.
	FrontmatterParsed

	// FrontmatterFallback means YAML parsing failed and the block was
	// recovered by a line-oriented key:value scan.
	FrontmatterFallback
)

// String returns the kind name.
func (k FrontmatterKind) String() string {
	switch k {
	case FrontmatterParsed:
		return "parsed"
	case FrontmatterFallback:
		return "fallback"
	default:
		return "empty"
	}
}

// Frontmatter is the metadata block prefixed to a source file's body.
type Frontmatter struct {
	Kind   FrontmatterKind
	Fields map[string]string
}

// Title returns the title field, or "".
func (f Frontmatter) Title() string {
	return f.Fields["title"]
}

// Description returns the description field, or "".
func (f Frontmatter) Description() string {
	return f.Fields["description"]
}

// Chapter returns the explicit chapter number carried in the
// frontmatter, or 0 if absent or not a positive integer.
func (f Frontmatter) Chapter() int {
	n, err := strconv.Atoi(f.Fields["chapter"])
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// Normalized is the result of normalizing one source file.
type Normalized struct {
	Meta     Frontmatter
	Body     string
	Images   []ImageRef
	Warnings []Warning
}

// Normalizer transforms one source file's raw text into book-ready
// metadata and body: frontmatter extraction and repair, title
// cleaning, internal-link rewriting, and image-reference rewriting.
// Per-item problems are reported as warnings on the result, never as
// errors.
type Normalizer interface {
	Normalize(ctx context.Context, raw, path string) (*Normalized, error)
}
