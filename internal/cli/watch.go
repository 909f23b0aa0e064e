package cli

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/stylusport/internal/ir"
)

// DefaultDebounce is how long a file must be quiet before it is revalidated.
const DefaultDebounce = 200 * time.Millisecond

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	FailOn   string
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch <path>",
		Short: "Revalidate sources as they change",
		Long: `Validate a Rust file or directory, then revalidate each .rs file when it
is written. Rapid saves are coalesced. Runs until interrupted.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("fail-on") && opts.Config.FailOn != "" {
				opts.FailOn = opts.Config.FailOn
			}
			return runWatch(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.FailOn, "fail-on", "error", "minimum severity reported as failing (info|warning|error)")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", DefaultDebounce, "quiet period before revalidating a file")

	return cmd
}

func runWatch(opts *WatchOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	log := opts.logger()
	ctx := cmdContext(cmd)

	threshold, err := ir.ParseSeverity(opts.FailOn)
	if err != nil {
		return loadFailure(formatter, &LoadError{Code: ErrCodeConfig, Message: fmt.Sprintf("--fail-on: %v", err)})
	}

	files, err := FindSourceFiles(path)
	if err != nil {
		return loadFailure(formatter, err)
	}

	validate := func(paths []string) {
		results, err := processFiles(ctx, paths, pipelineOptions{Logger: log})
		if err != nil {
			return
		}
		// Failures are reported, not fatal, while watching.
		_ = outputValidation(formatter, buildValidation(results, threshold))
	}
	validate(files)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return WrapExitError(ExitCommandError, "create watcher", err)
	}
	defer watcher.Close()

	single := !isDir(path)
	if err := addWatchDirs(watcher, path, single); err != nil {
		return WrapExitError(ExitCommandError, "watch "+path, err)
	}

	match := func(name string) bool {
		if single {
			return filepath.Clean(name) == filepath.Clean(path)
		}
		return filepath.Ext(name) == ".rs"
	}

	log.Info("watching", zap.String("path", path), zap.Duration("debounce", opts.Debounce))
	formatter.VerboseLog("Watching %s (Ctrl-C to stop)", path)

	return watchLoop(ctx, watcher, opts.Debounce, match, log, func(changed string) {
		formatter.VerboseLog("Changed: %s", changed)
		validate([]string{changed})
	})
}

// addWatchDirs registers the directories to watch. A single file is watched
// through its parent directory, since editors often replace files on save.
func addWatchDirs(w *fsnotify.Watcher, path string, single bool) error {
	if single {
		return w.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.Add(p)
	})
}

// watchLoop delivers debounced change notifications until ctx is done.
// A path is reported once it has seen no write or create events for the
// debounce period. New directories are added to the watcher.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, debounce time.Duration, match func(string) bool, log *zap.Logger, onChange func(string)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	tick := debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	pending := make(map[string]time.Time)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) && isDir(event.Name) && !skipDir(filepath.Base(event.Name)) {
				if err := w.Add(event.Name); err != nil {
					log.Warn("watch new directory", zap.String("path", event.Name), zap.Error(err))
				}
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			if match(event.Name) {
				pending[event.Name] = time.Now()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))

		case now := <-ticker.C:
			for _, p := range sortedDue(pending, now, debounce) {
				delete(pending, p)
				onChange(p)
			}
		}
	}
}

// sortedDue returns pending paths quiet for at least d, in path order.
func sortedDue(pending map[string]time.Time, now time.Time, d time.Duration) []string {
	var due []string
	for p, last := range pending {
		if now.Sub(last) >= d {
			due = append(due, p)
		}
	}
	slices.Sort(due)
	return due
}
