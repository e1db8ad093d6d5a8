package mock

import (
	"context"

	"github.com/fwojciec/docbind"
)

var _ docbind.BookWriter = (*BookWriter)(nil)

// BookWriter is a mock implementation of docbind.BookWriter.
type BookWriter struct {
	WriteBookFn   func(ctx context.Context, text string) error
	WriteReportFn func(ctx context.Context, report string) error
}

func (w *BookWriter) WriteBook(ctx context.Context, text string) error {
	return w.WriteBookFn(ctx, text)
}

func (w *BookWriter) WriteReport(ctx context.Context, report string) error {
	return w.WriteReportFn(ctx, report)
}

var _ docbind.DiffEngine = (*DiffEngine)(nil)

// DiffEngine is a mock implementation of docbind.DiffEngine.
type DiffEngine struct {
	DiffFn func(previous, current string) []docbind.PrintRange
}

func (e *DiffEngine) Diff(previous, current string) []docbind.PrintRange {
	return e.DiffFn(previous, current)
}
