package assemble

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/fwojciec/docbind"
)

// CodeBlock describes one numbered fenced code block in the book.
type CodeBlock struct {
	Number   int
	Chapter  int
	Language string
	Preview  string
}

// Anchor returns the stable anchor id for the block.
func (b CodeBlock) Anchor() string {
	return fmt.Sprintf("code-block-%d", b.Number)
}

var (
	chapterRefRe = regexp.MustCompile(`Chapter (\d+)`)
	codeRefRe    = regexp.MustCompile(`Code Block (\d+)`)
	fenceOpenRe  = regexp.MustCompile("^```([A-Za-z0-9_+-]*)")
)

// codeRegistry numbers fenced code blocks sequentially across the
// whole book and keeps the registry used for cross-referencing and
// the code examples index.
type codeRegistry struct {
	blocks []CodeBlock
	next   int
}

func newCodeRegistry() *codeRegistry {
	return &codeRegistry{next: 1}
}

// numberBlocks assigns each fenced code block in body a sequential
// global number, prefixing it with a stable anchor, and registers the
// block under the given chapter.
func (r *codeRegistry) numberBlocks(body string, chapter int) string {
	lines := strings.Split(body, "\n")
	var out []string
	inFence := false
	for i, line := range lines {
		m := fenceOpenRe.FindStringSubmatch(line)
		if m == nil {
			out = append(out, line)
			continue
		}
		if inFence {
			inFence = false
			out = append(out, line)
			continue
		}
		inFence = true
		block := CodeBlock{
			Number:   r.next,
			Chapter:  chapter,
			Language: m[1],
			Preview:  fencePreview(lines, i),
		}
		r.next++
		r.blocks = append(r.blocks, block)
		out = append(out, fmt.Sprintf("<a name=%q></a>", block.Anchor()), line)
	}
	return strings.Join(out, "\n")
}

// crossReference turns textual "Chapter N" and "Code Block N"
// references into links to the corresponding anchors. References to
// numbers that do not exist are left as plain text. Matches already
// inside link or image syntax are left alone.
func (r *codeRegistry) crossReference(body string, index docbind.ChapterIndex) string {
	known := make(map[int]bool, len(r.blocks))
	for _, b := range r.blocks {
		known[b.Number] = true
	}

	lines := strings.Split(body, "\n")
	inFence := false
	for i, line := range lines {
		if fenceOpenRe.MatchString(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		line = replaceRefs(line, chapterRefRe, func(n int) (string, bool) {
			if _, ok := index[n]; !ok {
				return "", false
			}
			return fmt.Sprintf("[Chapter %d](#chapter-%d)", n, n), true
		})
		line = replaceRefs(line, codeRefRe, func(n int) (string, bool) {
			if !known[n] {
				return "", false
			}
			return fmt.Sprintf("[Code Block %d](#code-block-%d)", n, n), true
		})
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// index renders the code examples index, grouped by chapter.
func (r *codeRegistry) index() string {
	if len(r.blocks) == 0 {
		return ""
	}

	byChapter := make(map[int][]CodeBlock)
	for _, b := range r.blocks {
		byChapter[b.Chapter] = append(byChapter[b.Chapter], b)
	}
	chapters := make([]int, 0, len(byChapter))
	for c := range byChapter {
		chapters = append(chapters, c)
	}
	sort.Ints(chapters)

	var b strings.Builder
	b.WriteString("\n## Code Examples Index\n")
	for _, c := range chapters {
		fmt.Fprintf(&b, "\n### Chapter %d Code Examples\n\n", c)
		for _, block := range byChapter[c] {
			title := fmt.Sprintf("Code Block %d", block.Number)
			if block.Language != "" {
				title += " (" + block.Language + ")"
			}
			fmt.Fprintf(&b, "- [%s](#%s)", title, block.Anchor())
			if block.Preview != "" {
				b.WriteString(": " + block.Preview)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// replaceRefs rewrites numeric references matched by re, skipping
// matches that are already part of link syntax.
func replaceRefs(line string, re *regexp.Regexp, link func(n int) (string, bool)) string {
	matches := re.FindAllStringSubmatchIndex(line, -1)
	if matches == nil {
		return line
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		n := atoi(line[m[2]:m[3]])
		replacement, ok := link(n)
		if !ok || insideLink(line, start, end) {
			continue
		}
		b.WriteString(line[last:start])
		b.WriteString(replacement)
		last = end
	}
	b.WriteString(line[last:])
	return b.String()
}

// insideLink reports whether the span already sits inside markdown
// link or image syntax.
func insideLink(line string, start, end int) bool {
	if start > 0 && (line[start-1] == '[' || line[start-1] == '(') {
		return true
	}
	if end < len(line) && line[end] == ']' {
		return true
	}
	return false
}

// fencePreview returns the first code line after the fence opener,
// truncated for index display.
func fencePreview(lines []string, fenceLine int) string {
	if fenceLine+1 >= len(lines) {
		return ""
	}
	preview := strings.TrimSpace(lines[fenceLine+1])
	if fenceOpenRe.MatchString(preview) {
		return ""
	}
	if runes := []rune(preview); len(runes) > 50 {
		preview = string(runes[:50])
	}
	return preview
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
