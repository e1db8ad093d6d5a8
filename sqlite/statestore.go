package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/docbind"
)

// Compile-time interface verification.
var _ docbind.BuildStateStore = (*StateStore)(nil)

// StateStore implements docbind.BuildStateStore using SQLite. The
// previous book text is retained in the same database, so one file
// carries everything a run needs to resume and diff.
type StateStore struct {
	db *DB
}

// NewStateStore creates a new StateStore.
func NewStateStore(db *DB) *StateStore {
	return &StateStore{db: db}
}

// Load returns the stored build state, or an empty state when the
// row is absent or carries an unknown schema version.
func (s *StateStore) Load(ctx context.Context) (*docbind.BuildState, error) {
	state := docbind.NewBuildState()

	var lastCombined string
	err := s.db.QueryRowContext(ctx, `
		SELECT version, run_id, previous_book_hash, total_pages, last_combined
		FROM build_state WHERE id = 1
	`).Scan(&state.Version, &state.RunID, &state.PreviousBookHash, &state.TotalPages, &lastCombined)
	if err != nil || state.Version != docbind.BuildStateVersion {
		return docbind.NewBuildState(), nil
	}
	if t, err := time.Parse(time.RFC3339, lastCombined); err == nil {
		state.LastCombined = t
	}

	rows, err := s.db.QueryContext(ctx, "SELECT path, fingerprint FROM processed_files")
	if err == nil {
		defer rows.Close()
		for rows.Next() {
			var path, fingerprint string
			if err := rows.Scan(&path, &fingerprint); err == nil {
				state.LastProcessed[path] = fingerprint
			}
		}
	}

	changed, err := s.db.QueryContext(ctx, "SELECT number FROM changed_chapters")
	if err == nil {
		defer changed.Close()
		for changed.Next() {
			var n int
			if err := changed.Scan(&n); err == nil {
				state.ChangedChapters[n] = true
			}
		}
	}

	return state, nil
}

// Save writes the build state in one transaction, preserving the
// retained previous-book text.
func (s *StateStore) Save(ctx context.Context, state *docbind.BuildState) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return docbind.Errorf(docbind.EINTERNAL, "begin save: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO build_state (id, version, run_id, previous_book_hash, total_pages, last_combined)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			version = excluded.version,
			run_id = excluded.run_id,
			previous_book_hash = excluded.previous_book_hash,
			total_pages = excluded.total_pages,
			last_combined = excluded.last_combined
	`, docbind.BuildStateVersion, state.RunID, state.PreviousBookHash,
		state.TotalPages, state.LastCombined.Format(time.RFC3339)); err != nil {
		return docbind.Errorf(docbind.EINTERNAL, "save build state: %v", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM processed_files"); err != nil {
		return docbind.Errorf(docbind.EINTERNAL, "clear processed files: %v", err)
	}
	for path, fingerprint := range state.LastProcessed {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO processed_files (path, fingerprint) VALUES (?, ?)", path, fingerprint); err != nil {
			return docbind.Errorf(docbind.EINTERNAL, "save processed file: %v", err)
		}
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM changed_chapters"); err != nil {
		return docbind.Errorf(docbind.EINTERNAL, "clear changed chapters: %v", err)
	}
	for n, flagged := range state.ChangedChapters {
		if !flagged {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO changed_chapters (number) VALUES (?)", n); err != nil {
			return docbind.Errorf(docbind.EINTERNAL, "save changed chapter: %v", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return docbind.Errorf(docbind.EINTERNAL, "commit save: %v", err)
	}
	return nil
}

// PreviousBook returns the previously assembled book text.
func (s *StateStore) PreviousBook(ctx context.Context) (string, error) {
	var text string
	err := s.db.QueryRowContext(ctx,
		"SELECT previous_book FROM build_state WHERE id = 1").Scan(&text)
	if err == sql.ErrNoRows || (err == nil && text == "") {
		return "", docbind.Errorf(docbind.ENOTFOUND, "no previous book")
	}
	if err != nil {
		return "", docbind.Errorf(docbind.EINTERNAL, "load previous book: %v", err)
	}
	return text, nil
}

// SavePreviousBook retains the book text for the next run's diff.
func (s *StateStore) SavePreviousBook(ctx context.Context, text string) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO build_state (id, version, previous_book)
		VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET previous_book = excluded.previous_book
	`, docbind.BuildStateVersion, text); err != nil {
		return docbind.Errorf(docbind.EINTERNAL, "save previous book: %v", err)
	}
	return nil
}
