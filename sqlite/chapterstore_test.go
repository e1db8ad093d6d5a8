package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/docbind"
	"github.com/fwojciec/docbind/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(t.TempDir() + "/test.db")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestChapterStore_SaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	db := openDB(t)
	ctx := context.Background()

	store := sqlite.NewChapterStore(db, nil)
	require.NoError(t, store.Load(ctx))

	n, warnings, err := store.AssignOrLookup(ctx, "guide/audio.md", 0)
	require.NoError(t, err)
	require.Empty(t, warnings)

	info, err := store.Chapter(ctx, n)
	require.NoError(t, err)
	info.Title = "Audio"
	info.StartPage = 1
	info.EndPage = 3
	info.Subsections = []docbind.Subsection{
		{Title: "Playback", StartPage: 2, EndPage: 3},
	}
	require.NoError(t, store.Update(ctx, info))
	require.NoError(t, store.Save(ctx))

	// A fresh store over the same database sees the saved index.
	reloaded := sqlite.NewChapterStore(db, nil)
	require.NoError(t, reloaded.Load(ctx))

	got, err := reloaded.Chapter(ctx, n)
	require.NoError(t, err)
	assert.Equal(t, "Audio", got.Title)
	assert.Equal(t, "guide/audio.md", got.SourcePath)
	assert.Equal(t, 1, got.StartPage)
	assert.Equal(t, 3, got.EndPage)
	require.Len(t, got.Subsections, 1)
	assert.Equal(t, "Playback", got.Subsections[0].Title)

	// Same path keeps its number after reload.
	again, _, err := reloaded.AssignOrLookup(ctx, "guide/audio.md", 0)
	require.NoError(t, err)
	assert.Equal(t, n, again)
}

func TestChapterStore_Update(t *testing.T) {
	t.Parallel()

	db := openDB(t)
	ctx := context.Background()
	store := sqlite.NewChapterStore(db, nil)
	require.NoError(t, store.Load(ctx))

	t.Run("unknown chapter", func(t *testing.T) {
		err := store.Update(ctx, &docbind.ChapterInfo{Number: 42, SourcePath: "a.md"})
		require.Error(t, err)
		assert.Equal(t, docbind.ENOTFOUND, docbind.ErrorCode(err))
	})

	t.Run("invalid chapter", func(t *testing.T) {
		err := store.Update(ctx, &docbind.ChapterInfo{Number: 0, SourcePath: "a.md"})
		require.Error(t, err)
		assert.Equal(t, docbind.EINVALID, docbind.ErrorCode(err))
	})
}

func TestChapterStore_Prune(t *testing.T) {
	t.Parallel()

	db := openDB(t)
	ctx := context.Background()
	store := sqlite.NewChapterStore(db, nil)
	require.NoError(t, store.Load(ctx))

	for _, path := range []string{"keep.md", "gone-a.md", "gone-b.md"} {
		_, _, err := store.AssignOrLookup(ctx, path, 0)
		require.NoError(t, err)
	}

	removed, err := store.Prune(ctx, func(path string) bool { return path == "keep.md" })
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, removed)

	require.NoError(t, store.Save(ctx))

	reloaded := sqlite.NewChapterStore(db, nil)
	require.NoError(t, reloaded.Load(ctx))
	index, err := reloaded.Index(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, index.Numbers())
}
