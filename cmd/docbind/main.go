package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docbind"
	"github.com/fwojciec/docbind/diff"
	"github.com/fwojciec/docbind/fs"
	"github.com/fwojciec/docbind/imagestore"
	"github.com/fwojciec/docbind/markdown"
	docslog "github.com/fwojciec/docbind/slog"
	"github.com/fwojciec/docbind/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used when the --db flag selects SQLite stores.
	DB *sqlite.DB

	// Stores for end-to-end testing.
	Chapters docbind.ChapterStore
	State    docbind.BuildStateStore
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docbind"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docbind --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	rules := docbind.DefaultRules()
	if cli.Rules != "" {
		rules, err = LoadRules(cli.Rules)
		if err != nil {
			return fmt.Errorf("failed to load rules from %q: %w", cli.Rules, err)
		}
	}

	// Select JSON file stores or SQLite stores for chapter and build
	// state. The book itself is always written to the archive tree.
	if cli.DB != "" {
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		m.Chapters = sqlite.NewChapterStore(m.DB, rules)
		m.State = sqlite.NewStateStore(m.DB)
	} else {
		m.Chapters = fs.NewChapterStore(cli.Dir, rules)
		m.State = fs.NewStateStore(cli.Dir)
	}
	defer m.Close()

	files := fs.NewDirResolver(cli.Dir)
	images := imagestore.New(cli.Dir, nil)

	writer := fs.NewBookWriter(cli.Dir)
	writer.CopyImages = cli.Assemble.CopyImages || cli.Watch.CopyImages

	deps.Dir = cli.Dir
	deps.Logger = logger
	deps.Chapters = docslog.NewLoggingChapterStore(m.Chapters, logger)
	deps.State = m.State
	deps.Normalizer = docslog.NewLoggingNormalizer(markdown.New(images, files), logger)
	deps.Files = files
	deps.Images = images
	deps.Writer = writer
	deps.Diff = diff.New()
	deps.BookPath = writer.BookPath()

	return kongCtx.Run(deps)
}
