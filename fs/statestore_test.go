package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/docbind"
	"github.com/fwojciec/docbind/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateStore_SaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()
	store := fs.NewStateStore(dir)

	state := docbind.NewBuildState()
	state.RunID = "run-1"
	state.MarkProcessed("guide/setup.md", "abc123")
	state.MarkChapterChanged(2)
	state.TotalPages = 14
	state.PreviousBookHash = "deadbeef"
	state.LastCombined = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, state))

	got, err := fs.NewStateStore(dir).Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, "abc123", got.LastProcessed["guide/setup.md"])
	assert.True(t, got.ChangedChapters[2])
	assert.Equal(t, 14, got.TotalPages)
	assert.Equal(t, "deadbeef", got.PreviousBookHash)
	assert.True(t, state.LastCombined.Equal(got.LastCombined))
}

func TestStateStore_Load(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing file loads fresh state", func(t *testing.T) {
		t.Parallel()

		got, err := fs.NewStateStore(t.TempDir()).Load(ctx)
		require.NoError(t, err)

		assert.Equal(t, docbind.BuildStateVersion, got.Version)
		assert.Empty(t, got.LastProcessed)
		assert.Empty(t, got.ChangedChapters)
	})

	t.Run("corrupt file loads fresh state", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".doc_state.json"), []byte("garbage"), 0644))

		got, err := fs.NewStateStore(dir).Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, got.LastProcessed)
	})

	t.Run("unknown schema version loads fresh state", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		raw := `{"version": 99, "run_id": "old", "last_processed": {"a.md": "x"}}`
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".doc_state.json"), []byte(raw), 0644))

		got, err := fs.NewStateStore(dir).Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, got.RunID)
		assert.Empty(t, got.LastProcessed)
	})
}

func TestStateStore_PreviousBook(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("absent previous book returns not found", func(t *testing.T) {
		t.Parallel()

		_, err := fs.NewStateStore(t.TempDir()).PreviousBook(ctx)
		require.Error(t, err)
		assert.Equal(t, docbind.ENOTFOUND, docbind.ErrorCode(err))
	})

	t.Run("retained text round-trips", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStateStore(t.TempDir())
		require.NoError(t, store.SavePreviousBook(ctx, "# The Book\n"))

		got, err := store.PreviousBook(ctx)
		require.NoError(t, err)
		assert.Equal(t, "# The Book\n", got)
	})
}
