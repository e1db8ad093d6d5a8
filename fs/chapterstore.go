// Package fs provides file-based storage for the documentation
// archive: the JSON chapter index, the build state, source file
// resolution, and atomic book output.
package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/fwojciec/docbind"
)

// chapterIndexFile is the chapter index file name inside the archive
// directory.
const chapterIndexFile = ".chapter_index.json"

// Ensure ChapterStore implements docbind.ChapterStore at compile time.
var _ docbind.ChapterStore = (*ChapterStore)(nil)

// ChapterStore persists the chapter index as a JSON file in the
// archive directory. The file is the canonical record surviving
// process restarts; a missing or corrupt file loads as an empty
// index.
type ChapterStore struct {
	path  string
	rules docbind.Rules
	index docbind.ChapterIndex
}

// NewChapterStore creates a ChapterStore for the given archive
// directory. When rules is nil the built-in classification rules are
// used.
func NewChapterStore(dir string, rules docbind.Rules) *ChapterStore {
	if rules == nil {
		rules = docbind.DefaultRules()
	}
	return &ChapterStore{
		path:  filepath.Join(dir, chapterIndexFile),
		rules: rules,
		index: docbind.ChapterIndex{},
	}
}

// Load reads the index from disk. Absent or unreadable files start
// from an empty index rather than failing.
func (s *ChapterStore) Load(ctx context.Context) error {
	s.index = docbind.ChapterIndex{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var raw map[string]*docbind.ChapterInfo
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	for key, info := range raw {
		n, err := strconv.Atoi(key)
		if err != nil || info == nil || n != info.Number {
			continue
		}
		s.index[n] = info
	}
	return nil
}

// Save writes the index to disk atomically.
func (s *ChapterStore) Save(ctx context.Context) error {
	raw := make(map[string]*docbind.ChapterInfo, len(s.index))
	for n, info := range s.index {
		raw[strconv.Itoa(n)] = info
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return docbind.Errorf(docbind.EINTERNAL, "marshal chapter index: %v", err)
	}
	return writeFileAtomic(s.path, data)
}

// AssignOrLookup returns the chapter number for a source path,
// assigning one if needed. Identity conflicts surface as warnings.
func (s *ChapterStore) AssignOrLookup(ctx context.Context, path string, explicit int) (int, []docbind.Warning, error) {
	n, warnings := s.index.Assign(path, explicit, s.rules)
	return n, warnings, nil
}

// Chapter returns the chapter with the given number.
func (s *ChapterStore) Chapter(ctx context.Context, number int) (*docbind.ChapterInfo, error) {
	info, ok := s.index[number]
	if !ok {
		return nil, docbind.Errorf(docbind.ENOTFOUND, "chapter %d not found", number)
	}
	c := *info
	c.Subsections = append([]docbind.Subsection(nil), info.Subsections...)
	return &c, nil
}

// Index returns a copy of the full index.
func (s *ChapterStore) Index(ctx context.Context) (docbind.ChapterIndex, error) {
	return s.index.Clone(), nil
}

// Update replaces the stored metadata for an existing chapter.
func (s *ChapterStore) Update(ctx context.Context, info *docbind.ChapterInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}
	if _, ok := s.index[info.Number]; !ok {
		return docbind.Errorf(docbind.ENOTFOUND, "chapter %d not found", info.Number)
	}
	c := *info
	c.Subsections = append([]docbind.Subsection(nil), info.Subsections...)
	s.index[info.Number] = &c
	return nil
}

// Prune removes chapters whose source file no longer exists and
// returns the removed numbers in ascending order.
func (s *ChapterStore) Prune(ctx context.Context, exists func(path string) bool) ([]int, error) {
	var removed []int
	for n, info := range s.index {
		if !exists(info.SourcePath) {
			delete(s.index, n)
			removed = append(removed, n)
		}
	}
	sort.Ints(removed)
	return removed, nil
}

// writeFileAtomic writes data through a temp file and renames it into
// place, so readers never observe a partial write.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
