package main

import (
	"fmt"

	"github.com/fwojciec/docbind"
	"github.com/fwojciec/docbind/assemble"
)

// Run executes the assemble command.
func (c *AssembleCmd) Run(deps *Dependencies) error {
	assembler := &assemble.Assembler{
		Chapters:    deps.Chapters,
		State:       deps.State,
		Normalizer:  deps.Normalizer,
		Files:       deps.Files,
		Writer:      deps.Writer,
		Diff:        deps.Diff,
		Title:       c.Title,
		Version:     c.Version,
		Concurrency: c.Concurrency,
	}

	result, err := assembler.Run(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbind.ErrorMessage(err))
		return err
	}

	printResult(deps, result)

	if c.RetryImages {
		for _, w := range deps.Images.RetryFailed(deps.Ctx) {
			fmt.Fprintf(deps.Stderr, "  %s\n", w)
		}
	}

	return nil
}

// printResult writes the run summary, shared with the watch command.
func printResult(deps *Dependencies, result *docbind.Result) {
	for _, w := range result.Warnings {
		fmt.Fprintf(deps.Stderr, "  %s\n", w)
	}

	fmt.Fprintf(deps.Stdout, "Assembled %d chapters (%d pages)\n", result.Chapters, result.TotalPages)
	if result.Skipped > 0 {
		fmt.Fprintf(deps.Stdout, "  Skipped %d chapters with missing sources\n", result.Skipped)
	}
	if len(result.Ranges) == 0 {
		fmt.Fprintln(deps.Stdout, "  No pages changed")
	} else {
		for _, r := range result.Ranges {
			fmt.Fprintf(deps.Stdout, "  Print %s\n", r)
		}
	}
	if result.Stopped {
		fmt.Fprintln(deps.Stdout, "  Stopped early; progress saved, rerun to finish")
	}
}
