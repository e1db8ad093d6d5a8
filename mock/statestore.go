package mock

import (
	"context"

	"github.com/fwojciec/docbind"
)

var _ docbind.BuildStateStore = (*BuildStateStore)(nil)

// BuildStateStore is a mock implementation of docbind.BuildStateStore.
type BuildStateStore struct {
	LoadFn             func(ctx context.Context) (*docbind.BuildState, error)
	SaveFn             func(ctx context.Context, state *docbind.BuildState) error
	PreviousBookFn     func(ctx context.Context) (string, error)
	SavePreviousBookFn func(ctx context.Context, text string) error
}

func (s *BuildStateStore) Load(ctx context.Context) (*docbind.BuildState, error) {
	return s.LoadFn(ctx)
}

func (s *BuildStateStore) Save(ctx context.Context, state *docbind.BuildState) error {
	return s.SaveFn(ctx, state)
}

func (s *BuildStateStore) PreviousBook(ctx context.Context) (string, error) {
	return s.PreviousBookFn(ctx)
}

func (s *BuildStateStore) SavePreviousBook(ctx context.Context, text string) error {
	return s.SavePreviousBookFn(ctx, text)
}
