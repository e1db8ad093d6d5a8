package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/docbind"
	"github.com/fwojciec/docbind/imagestore"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	Chapters   docbind.ChapterStore
	State      docbind.BuildStateStore
	Normalizer docbind.Normalizer
	Files      docbind.FileResolver
	Images     *imagestore.Store
	Writer     docbind.BookWriter
	Diff       docbind.DiffEngine

	// Dir is the archive directory being assembled.
	Dir string

	// BookPath is where the assembled book lives on disk.
	BookPath string
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Dir     string `short:"d" default:"." help:"Archive directory containing Markdown sources"`
	DB      string `help:"Keep chapter and build state in a SQLite database at this path instead of JSON files"`
	Rules   string `help:"YAML file with chapter numbering rules"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Assemble AssembleCmd `cmd:"" help:"Assemble the archive into a single printable book"`
	Chapters ChaptersCmd `cmd:"" help:"List the chapter index"`
	Diff     DiffCmd     `cmd:"" help:"Show which pages changed since the last assembled book"`
	Prune    PruneCmd    `cmd:"" help:"Remove chapters whose source files are gone"`
	Watch    WatchCmd    `cmd:"" help:"Reassemble the book whenever source files change"`
}

// AssembleCmd is the "assemble" subcommand.
type AssembleCmd struct {
	Title       string `default:"Complete Documentation" help:"Book title"`
	Version     string `help:"Version string recorded in the book header"`
	Concurrency int    `short:"c" default:"8" help:"Concurrent file scan limit"`
	CopyImages  bool   `help:"Mirror archive images into the print-ready directory"`
	RetryImages bool   `help:"Re-attempt previously failed image downloads after assembly"`
}

// ChaptersCmd is the "chapters" subcommand.
type ChaptersCmd struct{}

// DiffCmd is the "diff" subcommand.
type DiffCmd struct{}

// PruneCmd is the "prune" subcommand.
type PruneCmd struct {
	DryRun bool `help:"Show chapters that would be removed without removing them"`
}

// WatchCmd is the "watch" subcommand.
type WatchCmd struct {
	Title       string        `default:"Complete Documentation" help:"Book title"`
	Version     string        `help:"Version string recorded in the book header"`
	Concurrency int           `short:"c" default:"8" help:"Concurrent file scan limit"`
	CopyImages  bool          `help:"Mirror archive images into the print-ready directory"`
	Debounce    time.Duration `default:"500ms" help:"Quiet period before reassembling after a change"`
}
