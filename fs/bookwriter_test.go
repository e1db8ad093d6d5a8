package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/docbind/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookWriter_Paths(t *testing.T) {
	t.Parallel()

	w := fs.NewBookWriter("archive")
	assert.Equal(t, filepath.Join("archive", "print_ready", "complete_documentation.md"), w.BookPath())
	assert.Equal(t, filepath.Join("archive", "print_ready", "print_updates.md"), w.ReportPath())
}

func TestBookWriter_WriteBook(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()
	w := fs.NewBookWriter(dir)

	require.NoError(t, w.WriteBook(ctx, "# Complete Documentation\n"))

	data, err := os.ReadFile(w.BookPath())
	require.NoError(t, err)
	assert.Equal(t, "# Complete Documentation\n", string(data))

	// Overwrites replace the previous book in place.
	require.NoError(t, w.WriteBook(ctx, "# Second Edition\n"))
	data, err = os.ReadFile(w.BookPath())
	require.NoError(t, err)
	assert.Equal(t, "# Second Edition\n", string(data))
}

func TestBookWriter_WriteReport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := fs.NewBookWriter(dir)

	require.NoError(t, w.WriteReport(context.Background(), "No pages changed.\n"))

	data, err := os.ReadFile(w.ReportPath())
	require.NoError(t, err)
	assert.Equal(t, "No pages changed.\n", string(data))
}

func TestBookWriter_CopyImages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "images"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "images", "devices.png"), []byte("png-bytes"), 0644))

	w := fs.NewBookWriter(dir)
	w.CopyImages = true
	require.NoError(t, w.WriteBook(ctx, "book"))

	copied := filepath.Join(dir, "print_ready", "images", "devices.png")
	data, err := os.ReadFile(copied)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	// Already-copied images are left alone on subsequent writes.
	require.NoError(t, os.WriteFile(copied, []byte("edited-copy"), 0644))
	require.NoError(t, w.WriteBook(ctx, "book v2"))
	data, err = os.ReadFile(copied)
	require.NoError(t, err)
	assert.Equal(t, "edited-copy", string(data))
}

func TestBookWriter_CopyImages_NoSourceDir(t *testing.T) {
	t.Parallel()

	w := fs.NewBookWriter(t.TempDir())
	w.CopyImages = true
	assert.NoError(t, w.WriteBook(context.Background(), "book"))
}
