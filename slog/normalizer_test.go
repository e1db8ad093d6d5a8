package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/docbind"
	"github.com/fwojciec/docbind/mock"
	docslog "github.com/fwojciec/docbind/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingNormalizer_Normalize(t *testing.T) {
	t.Parallel()

	t.Run("logs frontmatter kind and warning count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.Normalizer{
			NormalizeFn: func(ctx context.Context, raw, path string) (*docbind.Normalized, error) {
				return &docbind.Normalized{
					Meta: docbind.Frontmatter{Kind: docbind.FrontmatterFallback},
					Warnings: []docbind.Warning{
						docbind.Warnf(docbind.EINVALID, path, "malformed frontmatter"),
					},
				}, nil
			},
		}

		n := docslog.NewLoggingNormalizer(inner, logger)
		got, err := n.Normalize(context.Background(), "raw text", "guide/audio.md")

		require.NoError(t, err)
		require.Len(t, got.Warnings, 1)
		output := buf.String()
		assert.Contains(t, output, "normalize")
		assert.Contains(t, output, "path=guide/audio.md")
		assert.Contains(t, output, "frontmatter=fallback")
		assert.Contains(t, output, "warnings=1")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Normalizer{
			NormalizeFn: func(ctx context.Context, raw, path string) (*docbind.Normalized, error) {
				return nil, docbind.Errorf(docbind.EINTERNAL, "tokenizer blew up")
			},
		}

		n := docslog.NewLoggingNormalizer(inner, logger)
		_, err := n.Normalize(context.Background(), "raw text", "guide/audio.md")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "normalize failed")
		assert.Contains(t, output, "tokenizer blew up")
	})
}
