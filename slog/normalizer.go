// Package slog provides logging decorators for docbind services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docbind"
)

// Ensure LoggingNormalizer implements docbind.Normalizer.
var _ docbind.Normalizer = (*LoggingNormalizer)(nil)

// LoggingNormalizer wraps a Normalizer with per-file debug logging.
type LoggingNormalizer struct {
	next   docbind.Normalizer
	logger *slog.Logger
}

// NewLoggingNormalizer creates a new LoggingNormalizer.
func NewLoggingNormalizer(next docbind.Normalizer, logger *slog.Logger) *LoggingNormalizer {
	return &LoggingNormalizer{next: next, logger: logger}
}

// Normalize delegates to the wrapped normalizer and logs the
// frontmatter kind and warning count for the file.
func (n *LoggingNormalizer) Normalize(ctx context.Context, raw, path string) (*docbind.Normalized, error) {
	begin := time.Now()
	normalized, err := n.next.Normalize(ctx, raw, path)
	if err != nil {
		n.logger.Error("normalize failed",
			"path", path,
			"duration", time.Since(begin),
			"err", err,
		)
		return nil, err
	}
	n.logger.Debug("normalize",
		"path", path,
		"frontmatter", normalized.Meta.Kind.String(),
		"warnings", len(normalized.Warnings),
		"duration", time.Since(begin),
	)
	return normalized, nil
}
