package markdown

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fwojciec/docbind"
)

// ParseFrontmatter extracts the leading metadata block from raw file
// text. Parsing is tolerant of the malformed YAML the scraper leaves
// behind: well-formed YAML yields FrontmatterParsed; on a YAML error
// the block is recovered by a line-oriented key:value scan
// (FrontmatterFallback); if that recovers nothing the whole input is
// treated as body with FrontmatterEmpty.
func ParseFrontmatter(raw string) (docbind.Frontmatter, string) {
	empty := docbind.Frontmatter{Kind: docbind.FrontmatterEmpty, Fields: map[string]string{}}

	if !strings.HasPrefix(raw, "---") {
		return empty, raw
	}
	parts := strings.SplitN(raw, "---", 3)
	if len(parts) < 3 {
		return empty, raw
	}
	block, body := parts[1], parts[2]

	var parsed map[string]any
	if err := yaml.Unmarshal([]byte(block), &parsed); err == nil && parsed != nil {
		return docbind.Frontmatter{
			Kind:   docbind.FrontmatterParsed,
			Fields: flattenFields(parsed),
		}, body
	}

	fields := scanFields(block)
	if len(fields) == 0 {
		return empty, raw
	}
	return docbind.Frontmatter{Kind: docbind.FrontmatterFallback, Fields: fields}, body
}

// FormatFrontmatter renders a metadata map as a frontmatter block
// with deterministic key order.
func FormatFrontmatter(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("---\n")
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(fields[k])
		b.WriteString("\n")
	}
	b.WriteString("---\n")
	return b.String()
}

// flattenFields converts parsed YAML values to strings. Scalar values
// keep their text form; lists are joined with commas; nested maps are
// dropped, since the book format only carries flat key-value pairs.
func flattenFields(parsed map[string]any) map[string]string {
	fields := make(map[string]string, len(parsed))
	for k, v := range parsed {
		switch val := v.(type) {
		case nil:
			fields[k] = ""
		case string:
			fields[k] = strings.TrimSpace(val)
		case []any:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				if s, ok := item.(string); ok {
					parts = append(parts, s)
				}
			}
			fields[k] = strings.Join(parts, ", ")
		case map[string]any:
			// flat format only
		default:
			fields[k] = fmt.Sprint(val)
		}
	}
	return fields
}

// scanFields recovers key: value pairs line by line from a block that
// failed YAML parsing.
func scanFields(block string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(block, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" || strings.ContainsAny(key, " \t") {
			continue
		}
		fields[key] = strings.TrimSpace(value)
	}
	return fields
}
