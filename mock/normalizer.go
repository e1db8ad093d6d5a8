package mock

import (
	"context"

	"github.com/fwojciec/docbind"
)

var _ docbind.Normalizer = (*Normalizer)(nil)

// Normalizer is a mock implementation of docbind.Normalizer.
type Normalizer struct {
	NormalizeFn func(ctx context.Context, raw, path string) (*docbind.Normalized, error)
}

func (n *Normalizer) Normalize(ctx context.Context, raw, path string) (*docbind.Normalized, error) {
	return n.NormalizeFn(ctx, raw, path)
}
