package markdown

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fwojciec/docbind"
)

// Ensure Normalizer implements docbind.Normalizer at compile time.
var _ docbind.Normalizer = (*Normalizer)(nil)

// defaultTitleSuffixes are the known site-branding and redundant
// suffixes stripped from page titles, case-insensitively.
var defaultTitleSuffixes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*-\s*unreal editor for fortnite.*$`),
	regexp.MustCompile(`(?i)\s*-\s*epic games.*$`),
	regexp.MustCompile(`(?i)\s*-\s*epic developer.*$`),
	regexp.MustCompile(`(?i)\s*-\s*documentation.*$`),
	regexp.MustCompile(`(?i)\s*-\s*uefn.*$`),
	regexp.MustCompile(`\s*\|.*$`),
}

// externalSchemes are link targets the normalizer never rewrites.
var externalSchemes = []string{"http://", "https://", "mailto:"}

// Normalizer transforms one source file at a time. It is stateless
// except for the image-reference side table, which grows monotonically
// across a run and is owned by the caller through Refs.
type Normalizer struct {
	// Images resolves remote image URLs to local paths. Optional;
	// when nil remote images are left untouched without warning.
	Images docbind.ImageResolver

	// Links resolves internal link targets to output paths. Optional;
	// when nil internal links are left untouched without warning.
	Links docbind.LinkResolver

	// TitleSuffixes overrides the default title cleaning patterns.
	TitleSuffixes []*regexp.Regexp

	refs map[docbind.ImageRef]struct{}
}

// New returns a Normalizer wired to the given collaborators.
func New(images docbind.ImageResolver, links docbind.LinkResolver) *Normalizer {
	return &Normalizer{
		Images: images,
		Links:  links,
		refs:   make(map[docbind.ImageRef]struct{}),
	}
}

// Refs returns every image reference recorded so far.
func (n *Normalizer) Refs() []docbind.ImageRef {
	refs := make([]docbind.ImageRef, 0, len(n.refs))
	for ref := range n.refs {
		refs = append(refs, ref)
	}
	return refs
}

// Normalize extracts and repairs frontmatter, cleans the title,
// rewrites internal links and image references, and returns the
// book-ready body. Per-item problems become warnings on the result.
func (n *Normalizer) Normalize(ctx context.Context, raw, path string) (*docbind.Normalized, error) {
	meta, body := ParseFrontmatter(raw)

	result := &docbind.Normalized{Meta: meta}
	if meta.Kind == docbind.FrontmatterFallback {
		result.Warnings = append(result.Warnings,
			docbind.Warnf(docbind.EINVALID, path, "malformed frontmatter recovered by line scan"))
	}

	n.repairMetadata(&result.Meta, body, path)
	body = n.alignTitleHeading(body, result.Meta.Title())
	body = n.rewriteImages(ctx, body, path, result)
	body = n.rewriteLinks(body, path, result)

	result.Body = strings.TrimSpace(body)
	return result, nil
}

// CleanTitle strips known branding suffixes and trailing separators
// from a page title.
func (n *Normalizer) CleanTitle(title string) string {
	suffixes := n.TitleSuffixes
	if suffixes == nil {
		suffixes = defaultTitleSuffixes
	}
	for _, re := range suffixes {
		title = re.ReplaceAllString(title, "")
	}
	return strings.TrimRight(strings.TrimSpace(title), " -|:")
}

// repairMetadata fills in a missing or dirty title and a missing
// description. Title precedence: cleaned frontmatter title, first
// top-level heading, file stem in title case.
func (n *Normalizer) repairMetadata(meta *docbind.Frontmatter, body, path string) {
	if meta.Fields == nil {
		meta.Fields = make(map[string]string)
	}

	title := n.CleanTitle(meta.Fields["title"])
	if title == "" {
		for _, h := range Headings(body) {
			if h.Level == 1 {
				title = n.CleanTitle(h.Title)
				break
			}
		}
	}
	if title == "" {
		title = stemTitle(path)
	}
	meta.Fields["title"] = title

	if meta.Fields["description"] == "" {
		if para := firstParagraph(body); para != "" {
			meta.Fields["description"] = para
		} else {
			delete(meta.Fields, "description")
		}
	}
}

// alignTitleHeading rewrites the first top-level heading to match the
// cleaned title so the body and metadata agree.
func (n *Normalizer) alignTitleHeading(body, title string) string {
	done := false
	return mapProse(body, func(line string) string {
		if done {
			return line
		}
		if m := headingRe.FindStringSubmatch(line); m != nil && len(m[1]) == 1 {
			done = true
			return "# " + title
		}
		return line
	})
}

// rewriteImages points image references at their local copies. A
// resolution failure leaves the original remote URL in place and
// records a warning.
func (n *Normalizer) rewriteImages(ctx context.Context, body, path string, result *docbind.Normalized) string {
	return mapProse(body, func(line string) string {
		return imageRe.ReplaceAllStringFunc(line, func(match string) string {
			m := imageRe.FindStringSubmatch(match)
			alt, target := m[1], strings.TrimSpace(m[2])
			if alt == "" {
				alt = "Image"
			}

			var local string
			switch {
			case isExternal(target):
				if n.Images == nil {
					return match
				}
				resolved, err := n.Images.ResolveImage(ctx, target)
				if err != nil {
					result.Warnings = append(result.Warnings,
						docbind.Warnf(docbind.ENOTFOUND, path, "image %s not resolved: %s", target, docbind.ErrorMessage(err)))
					return match
				}
				local = resolved
			case strings.Contains(target, "images/"):
				local = "./images/" + filepath.Base(target)
			default:
				return match
			}

			ref := docbind.ImageRef{RemoteURL: target, LocalPath: local}
			n.refs[ref] = struct{}{}
			result.Images = append(result.Images, ref)
			return fmt.Sprintf("![%s](%s)", alt, local)
		})
	})
}

// rewriteLinks resolves internal document links against the known
// output file set and rewrites them relative to the current file,
// carrying normalized anchors. Unresolvable links are preserved
// verbatim with a warning.
func (n *Normalizer) rewriteLinks(body, path string, result *docbind.Normalized) string {
	if n.Links == nil {
		return body
	}
	return mapProse(body, func(line string) string {
		return linkRe.ReplaceAllStringFunc(line, func(match string) string {
			m := linkRe.FindStringSubmatch(match)
			bang, text, target := m[1], m[2], strings.TrimSpace(m[3])

			if bang == "!" || IsImageReference(text) || IsImageReference(target) || isExternal(target) {
				return match
			}
			if strings.HasPrefix(target, "#") {
				return fmt.Sprintf("[%s](#%s)", text, Anchor(strings.TrimPrefix(target, "#")))
			}

			base, anchor, hasAnchor := strings.Cut(target, "#")
			resolved, ok := n.Links.ResolveLink(path, base)
			if !ok {
				result.Warnings = append(result.Warnings,
					docbind.Warnf(docbind.ENOTFOUND, path, "internal link %s not resolved", target))
				return match
			}

			rel, err := filepath.Rel(filepath.Dir(path), resolved)
			if err != nil {
				rel = resolved
			}
			rel = filepath.ToSlash(rel)
			if hasAnchor {
				rel += "#" + Anchor(anchor)
			}
			return fmt.Sprintf("[%s](%s)", text, rel)
		})
	})
}

func isExternal(target string) bool {
	for _, scheme := range externalSchemes {
		if strings.HasPrefix(target, scheme) {
			return true
		}
	}
	return false
}

// stemTitle derives a title from a file path: underscores and hyphens
// become spaces, words are title-cased.
func stemTitle(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	words := strings.Fields(stem)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// firstParagraph returns the first non-heading prose line of body.
func firstParagraph(body string) string {
	inFence := false
	for _, line := range strings.Split(body, "\n") {
		if fenceRe.MatchString(line) {
			inFence = !inFence
			continue
		}
		trimmed := strings.TrimSpace(line)
		if inFence || trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if !docbind.SignificantLine(line) {
			continue
		}
		return trimmed
	}
	return ""
}
