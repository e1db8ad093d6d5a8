// Package imagestore implements the image-resolution collaborator:
// it maps remote image URLs to stable local paths under the archive's
// images directory, downloading each image at most once.
package imagestore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/fwojciec/docbind"
)

// Ensure Store implements docbind.ImageResolver at compile time.
var _ docbind.ImageResolver = (*Store)(nil)

// Store downloads and caches remote images. A URL resolves to the
// same local relative path for the life of the store; failures are
// remembered so a later RetryFailed pass can re-attempt them.
type Store struct {
	dir    string
	client *http.Client

	// Attempts bounds download retries per URL. Defaults to 3.
	Attempts uint

	refs   map[string]string
	failed map[string]struct{}
}

// New creates a Store rooted at the archive directory. Images land
// in dir/images. A nil client gets a default with a 30s timeout.
func New(dir string, client *http.Client) *Store {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Store{
		dir:    dir,
		client: client,
		refs:   make(map[string]string),
		failed: make(map[string]struct{}),
	}
}

// ResolveImage returns the local relative path for a remote image
// URL, downloading it on first sight. Returns ENOTFOUND when the
// download fails, so the caller leaves the remote URL in place.
func (s *Store) ResolveImage(ctx context.Context, remoteURL string) (string, error) {
	if local, ok := s.refs[remoteURL]; ok {
		return local, nil
	}

	name, err := s.localName(remoteURL)
	if err != nil {
		s.failed[remoteURL] = struct{}{}
		return "", docbind.Errorf(docbind.ENOTFOUND, "bad image URL %s: %v", remoteURL, err)
	}

	target := filepath.Join(s.dir, "images", name)
	if _, err := os.Stat(target); err != nil {
		if err := s.download(ctx, remoteURL, target); err != nil {
			s.failed[remoteURL] = struct{}{}
			return "", docbind.Errorf(docbind.ENOTFOUND, "download %s: %v", remoteURL, err)
		}
	}

	local := "./images/" + name
	s.refs[remoteURL] = local
	delete(s.failed, remoteURL)
	return local, nil
}

// Refs returns every resolved image reference, sorted by URL.
func (s *Store) Refs() []docbind.ImageRef {
	refs := make([]docbind.ImageRef, 0, len(s.refs))
	for remote, local := range s.refs {
		refs = append(refs, docbind.ImageRef{RemoteURL: remote, LocalPath: local})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].RemoteURL < refs[j].RemoteURL })
	return refs
}

// RetryFailed re-attempts every previously failed URL and returns
// warnings for those that still fail.
func (s *Store) RetryFailed(ctx context.Context) []docbind.Warning {
	urls := make([]string, 0, len(s.failed))
	for u := range s.failed {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	var warnings []docbind.Warning
	for _, u := range urls {
		if _, err := s.ResolveImage(ctx, u); err != nil {
			warnings = append(warnings, docbind.Warnf(docbind.ENOTFOUND, "", "image still failing: %s", u))
		}
	}
	return warnings
}

// download fetches the image with bounded retries and writes it to
// target.
func (s *Store) download(ctx context.Context, remoteURL, target string) error {
	attempts := s.Attempts
	if attempts == 0 {
		attempts = 3
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteURL, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			resp, err := s.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				err := fmt.Errorf("status %d", resp.StatusCode)
				if resp.StatusCode >= 400 && resp.StatusCode < 500 {
					return retry.Unrecoverable(err)
				}
				return err
			}

			out, err := os.Create(target)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			if _, err := io.Copy(out, resp.Body); err != nil {
				out.Close()
				os.Remove(target)
				return err
			}
			return out.Close()
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

// localName derives a stable, filesystem-safe file name from the
// URL's last path segment, suffixing on collision with a different
// URL.
func (s *Store) localName(remoteURL string) (string, error) {
	u, err := url.Parse(remoteURL)
	if err != nil {
		return "", err
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return "", fmt.Errorf("no file name in path %q", u.Path)
	}

	var sb strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	name := sb.String()

	taken := make(map[string]bool, len(s.refs))
	for _, local := range s.refs {
		taken[strings.TrimPrefix(local, "./images/")] = true
	}
	if !taken[name] {
		return name, nil
	}
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if !taken[candidate] {
			return candidate, nil
		}
	}
}
