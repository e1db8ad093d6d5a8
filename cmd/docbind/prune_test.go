package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/docbind"
	main "github.com/fwojciec/docbind/cmd/docbind"
	"github.com/fwojciec/docbind/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPruneCmd_Run(t *testing.T) {
	t.Parallel()

	files := &mock.FileResolver{
		SourceFilesFn: func(ctx context.Context) ([]string, error) {
			return []string{"keep.md"}, nil
		},
	}

	t.Run("removes chapters with missing sources", func(t *testing.T) {
		t.Parallel()

		saved := false
		chapters := &mock.ChapterStore{
			LoadFn: func(ctx context.Context) error { return nil },
			PruneFn: func(ctx context.Context, exists func(path string) bool) ([]int, error) {
				assert.True(t, exists("keep.md"))
				assert.False(t, exists("gone.md"))
				return []int{2, 5}, nil
			},
			SaveFn: func(ctx context.Context) error {
				saved = true
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: testContext(), Stdout: stdout, Stderr: &bytes.Buffer{}, Chapters: chapters, Files: files}

		cmd := &main.PruneCmd{}
		require.NoError(t, cmd.Run(deps))

		assert.True(t, saved)
		assert.Contains(t, stdout.String(), "removed chapter 2")
		assert.Contains(t, stdout.String(), "removed chapter 5")
		assert.Contains(t, stdout.String(), "Pruned 2 chapters")
	})

	t.Run("nothing to prune", func(t *testing.T) {
		t.Parallel()

		chapters := &mock.ChapterStore{
			LoadFn: func(ctx context.Context) error { return nil },
			PruneFn: func(ctx context.Context, exists func(path string) bool) ([]int, error) {
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: testContext(), Stdout: stdout, Stderr: &bytes.Buffer{}, Chapters: chapters, Files: files}

		cmd := &main.PruneCmd{}
		require.NoError(t, cmd.Run(deps))

		assert.Contains(t, stdout.String(), "Nothing to prune.")
	})

	t.Run("dry run lists without pruning", func(t *testing.T) {
		t.Parallel()

		chapters := &mock.ChapterStore{
			LoadFn: func(ctx context.Context) error { return nil },
			IndexFn: func(ctx context.Context) (docbind.ChapterIndex, error) {
				return docbind.ChapterIndex{
					1: {Number: 1, Title: "Kept", SourcePath: "keep.md"},
					2: {Number: 2, Title: "Ghost", SourcePath: "gone.md"},
				}, nil
			},
			PruneFn: func(ctx context.Context, exists func(path string) bool) ([]int, error) {
				t.Error("prune should not run in dry-run mode")
				return nil, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: testContext(), Stdout: stdout, Stderr: &bytes.Buffer{}, Chapters: chapters, Files: files}

		cmd := &main.PruneCmd{DryRun: true}
		require.NoError(t, cmd.Run(deps))

		assert.Contains(t, stdout.String(), "would remove chapter 2: Ghost (gone.md)")
		assert.NotContains(t, stdout.String(), "Kept")
	})
}
