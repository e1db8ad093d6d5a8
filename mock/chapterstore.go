package mock

import (
	"context"

	"github.com/fwojciec/docbind"
)

var _ docbind.ChapterStore = (*ChapterStore)(nil)

// ChapterStore is a mock implementation of docbind.ChapterStore.
type ChapterStore struct {
	AssignOrLookupFn func(ctx context.Context, path string, explicit int) (int, []docbind.Warning, error)
	ChapterFn        func(ctx context.Context, number int) (*docbind.ChapterInfo, error)
	IndexFn          func(ctx context.Context) (docbind.ChapterIndex, error)
	UpdateFn         func(ctx context.Context, info *docbind.ChapterInfo) error
	PruneFn          func(ctx context.Context, exists func(path string) bool) ([]int, error)
	LoadFn           func(ctx context.Context) error
	SaveFn           func(ctx context.Context) error
}

func (s *ChapterStore) AssignOrLookup(ctx context.Context, path string, explicit int) (int, []docbind.Warning, error) {
	return s.AssignOrLookupFn(ctx, path, explicit)
}

func (s *ChapterStore) Chapter(ctx context.Context, number int) (*docbind.ChapterInfo, error) {
	return s.ChapterFn(ctx, number)
}

func (s *ChapterStore) Index(ctx context.Context) (docbind.ChapterIndex, error) {
	return s.IndexFn(ctx)
}

func (s *ChapterStore) Update(ctx context.Context, info *docbind.ChapterInfo) error {
	return s.UpdateFn(ctx, info)
}

func (s *ChapterStore) Prune(ctx context.Context, exists func(path string) bool) ([]int, error) {
	return s.PruneFn(ctx, exists)
}

func (s *ChapterStore) Load(ctx context.Context) error {
	return s.LoadFn(ctx)
}

func (s *ChapterStore) Save(ctx context.Context) error {
	return s.SaveFn(ctx)
}
