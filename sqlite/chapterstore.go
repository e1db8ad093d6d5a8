package sqlite

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/fwojciec/docbind"
)

// Compile-time interface verification.
var _ docbind.ChapterStore = (*ChapterStore)(nil)

// ChapterStore implements docbind.ChapterStore using SQLite. The
// index is held in memory between Load and Save, matching the
// single-writer-per-run model; Save replaces the chapters table in
// one transaction.
type ChapterStore struct {
	db    *DB
	rules docbind.Rules
	index docbind.ChapterIndex
}

// NewChapterStore creates a new ChapterStore. When rules is nil the
// built-in classification rules are used.
func NewChapterStore(db *DB, rules docbind.Rules) *ChapterStore {
	if rules == nil {
		rules = docbind.DefaultRules()
	}
	return &ChapterStore{db: db, rules: rules, index: docbind.ChapterIndex{}}
}

// Load reads the chapter index from the database. Rows that fail to
// decode are dropped rather than failing the load.
func (s *ChapterStore) Load(ctx context.Context) error {
	s.index = docbind.ChapterIndex{}

	rows, err := s.db.QueryContext(ctx, `
		SELECT number, title, source_path, start_page, end_page, subsections
		FROM chapters
	`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	for rows.Next() {
		var info docbind.ChapterInfo
		var subsections string
		if err := rows.Scan(&info.Number, &info.Title, &info.SourcePath,
			&info.StartPage, &info.EndPage, &subsections); err != nil {
			continue
		}
		if err := json.Unmarshal([]byte(subsections), &info.Subsections); err != nil {
			info.Subsections = nil
		}
		s.index[info.Number] = &info
	}
	return nil
}

// Save writes the full index in one transaction.
func (s *ChapterStore) Save(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return docbind.Errorf(docbind.EINTERNAL, "begin save: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chapters"); err != nil {
		return docbind.Errorf(docbind.EINTERNAL, "clear chapters: %v", err)
	}

	for _, n := range s.index.Numbers() {
		info := s.index[n]
		subsections, err := json.Marshal(info.Subsections)
		if err != nil {
			return docbind.Errorf(docbind.EINTERNAL, "marshal subsections: %v", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO chapters (number, title, source_path, start_page, end_page, subsections)
			VALUES (?, ?, ?, ?, ?, ?)
		`, info.Number, info.Title, info.SourcePath, info.StartPage, info.EndPage, string(subsections)); err != nil {
			return docbind.Errorf(docbind.EINTERNAL, "insert chapter %d: %v", info.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return docbind.Errorf(docbind.EINTERNAL, "commit save: %v", err)
	}
	return nil
}

// AssignOrLookup returns the chapter number for a source path,
// assigning one if needed.
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
