package fs

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/docbind"
)

// Compile-time interface verification.
var (
	_ docbind.FileResolver = (*DirResolver)(nil)
	_ docbind.LinkResolver = (*DirResolver)(nil)
)

// DirResolver resolves source files and internal links against a
// markdown archive directory. Paths are returned relative to the
// archive root with forward slashes, so the chapter index stays
// portable across machines.
type DirResolver struct {
	dir string

	// known maps lowercase base file names to archive-relative paths,
	// built on the first SourceFiles call and recomputed each run
	// from the current file set.
	known map[string][]string
}

// NewDirResolver creates a DirResolver rooted at the archive
// directory.
func NewDirResolver(dir string) *DirResolver {
	return &DirResolver{dir: dir}
}

// SourceFiles walks the archive and returns all markdown files,
// sorted, excluding the print-ready output tree and dotfiles.
func (r *DirResolver) SourceFiles(ctx context.Context) ([]string, error) {
	var paths []string
	r.known = make(map[string][]string)

	err := filepath.WalkDir(r.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if name == printReadyDir || (strings.HasPrefix(name, ".") && p != r.dir) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !strings.HasSuffix(strings.ToLower(name), ".md") {
			return nil
		}
		rel, err := filepath.Rel(r.dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		paths = append(paths, rel)
		key := strings.ToLower(name)
		r.known[key] = append(r.known[key], rel)
		return nil
	})
	if err != nil {
		return nil, docbind.Errorf(docbind.EINTERNAL, "walk %s: %v", r.dir, err)
	}

	sort.Strings(paths)
	for _, candidates := range r.known {
		sort.Strings(candidates)
	}
	return paths, nil
}

// ReadSource returns the raw text of one source file.
func (r *DirResolver) ReadSource(ctx context.Context, relPath string) (string, error) {
	data, err := os.ReadFile(filepath.Join(r.dir, filepath.FromSlash(relPath)))
	if err != nil {
		return "", docbind.Errorf(docbind.ENOTFOUND, "read %s: %v", relPath, err)
	}
	return string(data), nil
}

// ResolveLink maps an internal link target to a known output file.
// The target's final path segment is sanitized the same way the
// scraper names files, then matched against the current file set.
func (r *DirResolver) ResolveLink(fromPath, target string) (string, bool) {
	name := sanitizeLinkName(target)
	if name == "" || r.known == nil {
		return "", false
	}
	candidates := r.known[strings.ToLower(name)]
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[0], true
}

// sanitizeLinkName reduces a link target to the markdown file name it
// should resolve to: last path segment, unsafe characters stripped,
// spaces underscored, .md appended.
func sanitizeLinkName(target string) string {
	target = strings.TrimSuffix(target, "/")
	name := path.Base(target)
	if name == "." || name == "/" || name == "" {
		return ""
	}

	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ':
			sb.WriteRune('_')
		case r == '-' || r == '_' || r == '.':
			sb.WriteRune(r)
		}
	}
	name = sb.String()
	if name == "" {
		return ""
	}
	if !strings.HasSuffix(strings.ToLower(name), ".md") {
		name += ".md"
	}
	return name
}
