package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docbind"
)

// Ensure LoggingChapterStore implements docbind.ChapterStore.
var _ docbind.ChapterStore = (*LoggingChapterStore)(nil)

// LoggingChapterStore wraps a ChapterStore with logging for
// assignments and conflicts.
type LoggingChapterStore struct {
	next   docbind.ChapterStore
	logger *slog.Logger
}

// NewLoggingChapterStore creates a new LoggingChapterStore.
func NewLoggingChapterStore(next docbind.ChapterStore, logger *slog.Logger) *LoggingChapterStore {
	return &LoggingChapterStore{next: next, logger: logger}
}

// AssignOrLookup delegates to the wrapped store and logs the
// assignment, promoting conflict warnings to warn level.
func (s *LoggingChapterStore) AssignOrLookup(ctx context.Context, path string, explicit int) (int, []docbind.Warning, error) {
	begin := time.Now()
	number, warnings, err := s.next.AssignOrLookup(ctx, path, explicit)
	for _, w := range warnings {
		s.logger.Warn("chapter assignment warning",
			"code", w.Code,
			"path", w.Path,
			"message", w.Message,
		)
	}
	s.logger.Debug("chapter assignment",
		"path", path,
		"explicit", explicit,
		"number", number,
		"duration", time.Since(begin),
		"err", err,
	)
	return number, warnings, err
}

// Chapter delegates to the wrapped store.
func (s *LoggingChapterStore) Chapter(ctx context.Context, number int) (*docbind.ChapterInfo, error) {
	return s.next.Chapter(ctx, number)
}

// Index delegates to the wrapped store.
func (s *LoggingChapterStore) Index(ctx context.Context) (docbind.ChapterIndex, error) {
	return s.next.Index(ctx)
}

// Update delegates to the wrapped store.
func (s *LoggingChapterStore) Update(ctx context.Context, info *docbind.ChapterInfo) error {
	return s.next.Update(ctx, info)
}

// Prune delegates to the wrapped store and logs removed chapters.
func (s *LoggingChapterStore) Prune(ctx context.Context, exists func(path string) bool) (removed []int, err error) {
	defer func(begin time.Time) {
		s.logger.Info("chapter prune",
			"removed", removed,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Prune(ctx, exists)
}

// Load delegates to the wrapped store.
func (s *LoggingChapterStore) Load(ctx context.Context) error {
	return s.next.Load(ctx)
}

// Save delegates to the wrapped store.
func (s *LoggingChapterStore) Save(ctx context.Context) error {
	return s.next.Save(ctx)
}
