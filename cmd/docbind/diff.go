package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fwojciec/docbind"
)

// Run executes the diff command. It compares the book on disk against
// the retained previous version without reassembling anything.
func (c *DiffCmd) Run(deps *Dependencies) error {
	current, err := os.ReadFile(deps.BookPath)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "no assembled book at %s. Run 'docbind assemble' first.\n", deps.BookPath)
		return err
	}

	previous, err := deps.State.PreviousBook(deps.Ctx)
	if err != nil && docbind.ErrorCode(err) != docbind.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docbind.ErrorMessage(err))
		return err
	}

	ranges := deps.Diff.Diff(previous, string(current))
	fmt.Fprint(deps.Stdout, docbind.FormatPrintReport(ranges, time.Now()))

	return nil
}
