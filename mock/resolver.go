package mock

import (
	"context"

	"github.com/fwojciec/docbind"
)

var _ docbind.FileResolver = (*FileResolver)(nil)

// FileResolver is a mock implementation of docbind.FileResolver.
type FileResolver struct {
	SourceFilesFn func(ctx context.Context) ([]string, error)
	ReadSourceFn  func(ctx context.Context, path string) (string, error)
}

func (r *FileResolver) SourceFiles(ctx context.Context) ([]string, error) {
	return r.SourceFilesFn(ctx)
}

func (r *FileResolver) ReadSource(ctx context.Context, path string) (string, error) {
	return r.ReadSourceFn(ctx, path)
}

var _ docbind.ImageResolver = (*ImageResolver)(nil)

// ImageResolver is a mock implementation of docbind.ImageResolver.
type ImageResolver struct {
	ResolveImageFn func(ctx context.Context, remoteURL string) (string, error)
}

func (r *ImageResolver) ResolveImage(ctx context.Context, remoteURL string) (string, error) {
	return r.ResolveImageFn(ctx, remoteURL)
}

var _ docbind.LinkResolver = (*LinkResolver)(nil)

// LinkResolver is a mock implementation of docbind.LinkResolver.
type LinkResolver struct {
	ResolveLinkFn func(fromPath, target string) (string, bool)
}

func (r *LinkResolver) ResolveLink(fromPath, target string) (string, bool) {
	return r.ResolveLinkFn(fromPath, target)
}
