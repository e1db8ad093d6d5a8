package main

import (
	"fmt"

	"github.com/fwojciec/docbind"
)

// Run executes the prune command.
func (c *PruneCmd) Run(deps *Dependencies) error {
	if err := deps.Chapters.Load(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbind.ErrorMessage(err))
		return err
	}

	paths, err := deps.Files.SourceFiles(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbind.ErrorMessage(err))
		return err
	}
	known := make(map[string]bool, len(paths))
	for _, p := range paths {
		known[p] = true
	}

	if c.DryRun {
		index, err := deps.Chapters.Index(deps.Ctx)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docbind.ErrorMessage(err))
			return err
		}
		count := 0
		for _, n := range index.Numbers() {
			if info := index[n]; !known[info.SourcePath] {
				fmt.Fprintf(deps.Stdout, "would remove chapter %d: %s (%s)\n", info.Number, info.Title, info.SourcePath)
				count++
			}
		}
		if count == 0 {
			fmt.Fprintln(deps.Stdout, "Nothing to prune.")
		}
		return nil
	}

	removed, err := deps.Chapters.Prune(deps.Ctx, func(path string) bool { return known[path] })
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbind.ErrorMessage(err))
		return err
	}
	if len(removed) == 0 {
		fmt.Fprintln(deps.Stdout, "Nothing to prune.")
		return nil
	}

	if err := deps.Chapters.Save(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbind.ErrorMessage(err))
		return err
	}

	for _, n := range removed {
		fmt.Fprintf(deps.Stdout, "removed chapter %d\n", n)
	}
	fmt.Fprintf(deps.Stdout, "Pruned %d chapters\n", len(removed))

	return nil
}
