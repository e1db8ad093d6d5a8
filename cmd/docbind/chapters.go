package main

import (
	"fmt"

	"github.com/fwojciec/docbind"
)

// Run executes the chapters command.
func (c *ChaptersCmd) Run(deps *Dependencies) error {
	if err := deps.Chapters.Load(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbind.ErrorMessage(err))
		return err
	}

	index, err := deps.Chapters.Index(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbind.ErrorMessage(err))
		return err
	}

	numbers := index.Numbers()
	if len(numbers) == 0 {
		fmt.Fprintln(deps.Stdout, "No chapters assigned yet. Run 'docbind assemble' first.")
		return nil
	}

	for _, n := range numbers {
		info := index[n]
		if info.StartPage > 0 {
			fmt.Fprintf(deps.Stdout, "%5d  %s  (pages %d-%d)  %s\n",
				info.Number, info.Title, info.StartPage, info.EndPage, info.SourcePath)
			continue
		}
		fmt.Fprintf(deps.Stdout, "%5d  %s  %s\n", info.Number, info.Title, info.SourcePath)
	}

	return nil
}
