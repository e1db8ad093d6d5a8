package assemble

import (
	"context"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"
)

// prescan reads every source file and fingerprints its content. Reads
// run concurrently; the returned slice is ordered by path so the rest
// of the run is deterministic. Read failures are recorded on the
// fact, not returned: a missing source is a per-item problem.
func (a *Assembler) prescan(ctx context.Context, paths []string) []*fileFact {
	concurrency := a.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}

	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	facts := make([]*fileFact, len(sorted))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, path := range sorted {
		i, path := i, path
		g.Go(func() error {
			fact := &fileFact{path: path}
			raw, err := a.Files.ReadSource(gctx, path)
			if err != nil {
				fact.readErr = err
			} else {
				fact.raw = raw
				fact.hash = computeHash(raw)
			}
			facts[i] = fact
			return nil
		})
	}
	_ = g.Wait()
	return facts
}

// computeHash computes a hash of the content using xxhash.
func computeHash(content string) string {
	h := xxhash.Sum64String(content)
	return fmt.Sprintf("%x", h)
}
