package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/fwojciec/docbind"
)

// Output file names inside the print-ready directory.
const (
	printReadyDir = "print_ready"
	bookFile      = "complete_documentation.md"
	reportFile    = "print_updates.md"
)

// Ensure BookWriter implements docbind.BookWriter at compile time.
var _ docbind.BookWriter = (*BookWriter)(nil)

// BookWriter writes assembled output into the archive's print-ready
// directory. Writes are atomic; a failed write is the one fatal
// error of an assembly run.
type BookWriter struct {
	dir string

	// CopyImages mirrors the archive's images directory into the
	// print-ready tree alongside the book.
	CopyImages bool
}

// NewBookWriter creates a BookWriter for the given archive directory.
func NewBookWriter(dir string) *BookWriter {
	return &BookWriter{dir: dir}
}

// BookPath returns where the assembled book is written.
func (w *BookWriter) BookPath() string {
	return filepath.Join(w.dir, printReadyDir, bookFile)
}

// ReportPath returns where the print-diff report is written.
func (w *BookWriter) ReportPath() string {
	return filepath.Join(w.dir, printReadyDir, reportFile)
}

// WriteBook persists the assembled book text.
func (w *BookWriter) WriteBook(ctx context.Context, text string) error {
	if err := writeFileAtomic(w.BookPath(), []byte(text)); err != nil {
		return docbind.Errorf(docbind.EINTERNAL, "write book: %v", err)
	}
	if w.CopyImages {
		if err := w.copyImages(); err != nil {
			return docbind.Errorf(docbind.EINTERNAL, "copy images: %v", err)
		}
	}
	return nil
}

// WriteReport persists the print-diff report.
func (w *BookWriter) WriteReport(ctx context.Context, report string) error {
	if err := writeFileAtomic(w.ReportPath(), []byte(report)); err != nil {
		return docbind.Errorf(docbind.EINTERNAL, "write report: %v", err)
	}
	return nil
}

// copyImages mirrors dir/images into dir/print_ready/images, copying
// only files not already present.
func (w *BookWriter) copyImages() error {
	src := filepath.Join(w.dir, "images")
	dst := filepath.Join(w.dir, printReadyDir, "images")

	entries, err := os.ReadDir(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(dst, 0755); err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		target := filepath.Join(dst, entry.Name())
		if _, err := os.Stat(target); err == nil {
			continue
		}
		if err := copyFile(filepath.Join(src, entry.Name()), target); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
