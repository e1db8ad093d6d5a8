// Package markdown provides the content normalizer and a small
// line-oriented tokenizer for the markdown constructs the assembler
// cares about: fence delimiters, headings, links, and images. The
// grammar lives here, in one place, rather than as ad hoc string
// scanning spread across callers.
package markdown

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	fenceRe   = regexp.MustCompile("^```([A-Za-z0-9_+-]*)")
	headingRe = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	imageRe   = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)
	linkRe    = regexp.MustCompile(`(!?)\[([^\]]*)\]\(([^)]+)\)`)
)

// Heading is one markdown heading found outside fenced code.
type Heading struct {
	Level int
	Title string
	Line  int // zero-based line index
}

// Fence is one fenced code block.
type Fence struct {
	Language  string
	StartLine int // line of the opening delimiter
	EndLine   int // line of the closing delimiter; -1 if unterminated
	Body      string
}

// Headings scans text and returns all headings outside fenced code,
// in document order.
func Headings(text string) []Heading {
	var headings []Heading
	inFence := false
	for i, line := range strings.Split(text, "\n") {
		if fenceRe.MatchString(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if m := headingRe.FindStringSubmatch(line); m != nil {
			headings = append(headings, Heading{
				Level: len(m[1]),
				Title: strings.TrimSpace(m[2]),
				Line:  i,
			})
		}
	}
	return headings
}

// Fences scans text and returns all fenced code blocks in document
// order.
func Fences(text string) []Fence {
	var fences []Fence
	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); i++ {
		m := fenceRe.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		fence := Fence{Language: m[1], StartLine: i, EndLine: -1}
		var body []string
		for j := i + 1; j < len(lines); j++ {
			if fenceRe.MatchString(lines[j]) {
				fence.EndLine = j
				i = j
				break
			}
			body = append(body, lines[j])
		}
		fence.Body = strings.Join(body, "\n")
		fences = append(fences, fence)
		if fence.EndLine == -1 {
			break
		}
	}
	return fences
}

// Anchor creates a normalized in-page anchor from a title: lowercase,
// with runs of non-alphanumeric characters collapsed to single
// hyphens.
func Anchor(title string) string {
	var sb strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && sb.Len() > 0 {
				sb.WriteRune('-')
			}
			pendingHyphen = false
			sb.WriteRune(r)
		} else {
			pendingHyphen = true
		}
	}
	return sb.String()
}

// IsImageReference reports whether a link text or target looks like
// an image rather than a document link.
func IsImageReference(s string) bool {
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "![") || strings.Contains(lower, "/images/") {
		return true
	}
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// mapProse applies fn to every line outside fenced code blocks.
func mapProse(text string, fn func(line string) string) string {
	lines := strings.Split(text, "\n")
	inFence := false
	for i, line := range lines {
		if fenceRe.MatchString(line) {
			inFence = !inFence
			continue
		}
		if !inFence {
			lines[i] = fn(line)
		}
	}
	return strings.Join(lines, "\n")
}
