package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fwojciec/docbind"
)

// State file names inside the archive directory.
const (
	stateFile        = ".doc_state.json"
	previousBookFile = ".book.prev.md"
)

// Ensure StateStore implements docbind.BuildStateStore at compile time.
var _ docbind.BuildStateStore = (*StateStore)(nil)

// StateStore persists build state and the previous book text as
// files in the archive directory.
type StateStore struct {
	dir string
}

// NewStateStore creates a StateStore rooted at the archive directory.
func NewStateStore(dir string) *StateStore {
	return &StateStore{dir: dir}
}

// Load returns the stored build state. An absent, unreadable, or
// schema-invalid file yields a fresh empty state, never an error.
func (s *StateStore) Load(ctx context.Context) (*docbind.BuildState, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, stateFile))
	if err != nil {
		return docbind.NewBuildState(), nil
	}

	var state docbind.BuildState
	if err := json.Unmarshal(data, &state); err != nil || state.Version != docbind.BuildStateVersion {
		return docbind.NewBuildState(), nil
	}
	if state.LastProcessed == nil {
		state.LastProcessed = make(map[string]string)
	}
	if state.ChangedChapters == nil {
		state.ChangedChapters = make(map[int]bool)
	}
	return &state, nil
}

// Save writes the build state atomically.
func (s *StateStore) Save(ctx context.Context, state *docbind.BuildState) error {
	state.Version = docbind.BuildStateVersion
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return docbind.Errorf(docbind.EINTERNAL, "marshal build state: %v", err)
	}
	return writeFileAtomic(filepath.Join(s.dir, stateFile), data)
}

// PreviousBook returns the previously assembled book text, or
// ENOTFOUND when no prior version is retained.
func (s *StateStore) PreviousBook(ctx context.Context) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, previousBookFile))
	if err != nil {
		return "", docbind.Errorf(docbind.ENOTFOUND, "no previous book")
	}
	return string(data), nil
}

// SavePreviousBook retains the book text for the next run's diff.
func (s *StateStore) SavePreviousBook(ctx context.Context, text string) error {
	return writeFileAtomic(filepath.Join(s.dir, previousBookFile), []byte(text))
}
