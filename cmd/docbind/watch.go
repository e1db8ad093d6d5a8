package main

import (
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/fwojciec/docbind"
	"github.com/fwojciec/docbind/assemble"
)

// Run executes the watch command: assemble once, then reassemble
// after every quiet period that follows a Markdown change.
func (c *WatchCmd) Run(deps *Dependencies) error {
	ctx, stop := signal.NotifyContext(deps.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	run := func() {
		result, err := assembler.Run(ctx)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docbind.ErrorMessage(err))
			return
		}
		printResult(deps, result)
	}

	run()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, deps.Dir); err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Watching %s for changes\n", deps.Dir)

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(deps.Stdout, "Stopping")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// New directories need their own watch.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !skipDir(filepath.Base(event.Name)) {
					_ = watchTree(watcher, event.Name)
				}
			}
			if !strings.HasSuffix(event.Name, ".md") {
				continue
			}
			if strings.Contains(event.Name, string(filepath.Separator)+"print_ready"+string(filepath.Separator)) {
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(c.Debounce, func() {
					select {
					case pending <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(c.Debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(deps.Stderr, "watch error: %v\n", err)

		case <-pending:
			timer = nil
			run()
		}
	}
}

// watchTree registers root and every non-ignored subdirectory with
// the watcher.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}

// skipDir reports directories excluded from the source tree: the
// print-ready output and anything hidden.
func skipDir(name string) bool {
	return name == "print_ready" || strings.HasPrefix(name, ".")
}
