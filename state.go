package docbind

import (
	"context"
	"time"
)

// BuildStateVersion is the current schema version of the persisted
// build state. Stores treat any other version as corrupt and start
// from an empty state.
const BuildStateVersion = 1

// BuildState is the process-wide state of one assembly run. It is
// loaded at assembly start, mutated during assembly, and saved at
// assembly end; there is no module-level state anywhere in the core.
type BuildState struct {
	Version int `json:"version"`

	// RunID identifies the run that last saved this state.
	RunID string `json:"run_id"`

	// LastProcessed maps source paths to the content fingerprint seen
	// when the file was last folded into the book.
	LastProcessed map[string]string `json:"last_processed"`

	// ChangedChapters flags chapters whose content changed during the
	// current run.
	ChangedChapters map[int]bool `json:"changed_chapters"`

	// PreviousBookHash fingerprints the previously assembled book
	// text retained by the store.
	PreviousBookHash string `json:"previous_book_hash"`

	// TotalPages is the estimated page count of the last build.
	TotalPages int `json:"total_pages"`

	// LastCombined records when the book was last assembled.
	LastCombined time.Time `json:"last_combined"`
}

// NewBuildState returns an empty build state at the current version.
func NewBuildState() *BuildState {
	return &BuildState{
		Version:         BuildStateVersion,
		LastProcessed:   make(map[string]string),
		ChangedChapters: make(map[int]bool),
	}
}

// Changed reports whether a source file's fingerprint differs from
// the one recorded at last processing. Unknown paths are changed.
func (s *BuildState) Changed(path, fingerprint string) bool {
	prev, ok := s.LastProcessed[path]
	return !ok || prev != fingerprint
}

// MarkProcessed records a source file's current fingerprint.
func (s *BuildState) MarkProcessed(path, fingerprint string) {
	if s.LastProcessed == nil {
		s.LastProcessed = make(map[string]string)
	}
	s.LastProcessed[path] = fingerprint
}

// MarkChapterChanged flags a chapter as changed in the current run.
func (s *BuildState) MarkChapterChanged(number int) {
	if s.ChangedChapters == nil {
		s.ChangedChapters = make(map[int]bool)
	}
	s.ChangedChapters[number] = true
}

// BuildStateStore persists build state between runs, including the
// full text of the previously assembled book so the diff engine
// always has a same-shape prior version to compare against.
type BuildStateStore interface {
	// Load returns the stored build state, or an empty state if the
	// store is absent, unreadable, or schema-invalid. A fresh
	// baseline is never a hard failure.
	Load(ctx context.Context) (*BuildState, error)

	// Save writes the build state to durable storage.
	Save(ctx context.Context, state *BuildState) error

	// PreviousBook returns the previously assembled book text.
	// Returns ENOTFOUND if no prior version exists, in which case
	// everything is new and the diff degenerates to one range
	// covering the whole book.
	PreviousBook(ctx context.Context) (string, error)

	// SavePreviousBook retains book text for the next run's diff.
	SavePreviousBook(ctx context.Context, text string) error
}
