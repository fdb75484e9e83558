// Package watcher triggers full rebuilds when vault sources change.
package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a rebuild fires.
const DefaultDebounce = 300 * time.Millisecond

// RebuildFunc runs one full build.
type RebuildFunc func(ctx context.Context)

// Options configure Watch.
type Options struct {
	Root     string        // vault root, watched recursively
	Files    []string      // extra files to watch, e.g. the bibliography
	Ignore   []string      // directories whose events are dropped, e.g. the output dir
	Debounce time.Duration // <= 0 means DefaultDebounce
}

// Watch starts an fsnotify watcher on the vault root and the extra files and
// calls rebuild after changes settle, until ctx is cancelled. Bursts of
// events collapse into one rebuild. New directories created at runtime are
// added to the watch list.
func Watch(ctx context.Context, opts Options, logger *slog.Logger, rebuild RebuildFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	f := newFilter(opts)
	if err := addDirsRecursive(w, f, f.root); err != nil {
		return err
	}
	for dir := range f.fileDirs() {
		if err := w.Add(dir); err != nil {
			logger.Warn("watcher: watch file dir failed",
				slog.String("path", dir),
				slog.String("error", err.Error()))
		}
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	logger.Info("watcher: started", slog.String("root", f.root))

	var timer *time.Timer
	var timerCh <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			logger.Debug("watcher: rebuilding")
			rebuild(ctx)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			absPath := ev.Name

			if ev.Op&fsnotify.Create != 0 && f.underRoot(absPath) && !f.ignored(absPath) {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, f, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", absPath))
					}
					schedule()
					continue
				}
			}

			if !f.relevant(absPath) {
				continue
			}
			logger.Debug("watcher: change",
				slog.String("path", absPath),
				slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

type filter struct {
	root   string
	files  map[string]struct{}
	ignore []string
}

func newFilter(opts Options) *filter {
	f := &filter{root: absClean(opts.Root), files: make(map[string]struct{})}
	for _, p := range opts.Files {
		if p != "" {
			f.files[absClean(p)] = struct{}{}
		}
	}
	for _, p := range opts.Ignore {
		if p != "" {
			f.ignore = append(f.ignore, absClean(p))
		}
	}
	return f
}

func absClean(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

func (f *filter) fileDirs() map[string]struct{} {
	out := make(map[string]struct{})
	for p := range f.files {
		dir := filepath.Dir(p)
		if !f.underRoot(dir) {
			out[dir] = struct{}{}
		}
	}
	return out
}

func within(p, dir string) bool {
	return p == dir || strings.HasPrefix(p, dir+string(os.PathSeparator))
}

func (f *filter) underRoot(p string) bool {
	return within(p, f.root)
}

// ignored reports whether p lies in an ignored or dot-prefixed directory.
func (f *filter) ignored(p string) bool {
	for _, dir := range f.ignore {
		if within(p, dir) {
			return true
		}
	}
	rel, err := filepath.Rel(f.root, p)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(rel, string(os.PathSeparator)) {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

func (f *filter) relevant(p string) bool {
	p = filepath.Clean(p)
	if _, ok := f.files[p]; ok {
		return true
	}
	if !f.underRoot(p) || f.ignored(p) {
		return false
	}
	return strings.HasSuffix(p, ".md")
}

// addDirsRecursive adds root and all its subdirectories to the watcher,
// skipping ignored ones.
func addDirsRecursive(w *fsnotify.Watcher, f *filter, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != f.root && f.ignored(path) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
