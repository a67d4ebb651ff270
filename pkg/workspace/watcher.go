package workspace

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/propdoc/pkg/parser"
)

// InvalidateFunc drops every cached artifact derived from path.
type InvalidateFunc func(path string)

// ChangeFunc receives a debounced batch of changes, sorted by path.
type ChangeFunc func(events []WatchEvent)

// Watcher watches a source tree and invalidates cached parses when files
// change, so the next resolution request sees fresh content.
//
// **Features:**
//   - Debouncing - Changes within the window are delivered as one batch
//   - New directories are watched as they appear
//   - Only source files (.ts, .tsx, .js, .jsx) produce events
//
// **Usage:**
//
//	w, err := NewWatcher(root, DefaultWatchOptions(), ws.Invalidate, onChange, logger)
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//	err = w.Run(ctx) // blocks until ctx is cancelled
type Watcher struct {
	watcher    *fsnotify.Watcher
	root       string
	options    WatchOptions
	invalidate InvalidateFunc
	onChange   ChangeFunc
	logger     *slog.Logger

	mu      sync.Mutex
	pending map[string]WatchEvent
	timer   *time.Timer

	closeOnce sync.Once
}

// NewWatcher creates a watcher on root and every non-ignored directory
// below it.
func NewWatcher(
	root string,
	options WatchOptions,
	invalidate InvalidateFunc,
	onChange ChangeFunc,
	logger *slog.Logger,
) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if options.DebounceMs <= 0 {
		options.DebounceMs = DefaultWatchOptions().DebounceMs
	}
	for _, pattern := range options.IgnorePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Newf("invalid ignore pattern: %s", pattern)
		}
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create file watcher")
	}

	w := &Watcher{
		watcher:    fsw,
		root:       root,
		options:    options,
		invalidate: invalidate,
		onChange:   onChange,
		logger:     logger,
		pending:    make(map[string]WatchEvent),
	}

	if err := w.addTree(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	return w, nil
}

// addTree watches dir and its subdirectories.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return errors.Wrapf(err, "watch %s", dir)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.shouldIgnore(path, true) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			if path == dir {
				return errors.Wrapf(err, "watch %s", path)
			}
			w.logger.Warn("Failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// Run processes file system events until ctx is cancelled. Pending changes
// are flushed before it returns.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("File watcher started", "root", w.root)

	for {
		select {
		case <-ctx.Done():
			w.flush()
			w.logger.Info("File watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				w.flush()
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.flush()
				return nil
			}
			w.logger.Error("File watcher error", "error", err)
		}
	}
}

// Close releases the underlying watcher and cancels any pending batch.
// Idempotent.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
			w.timer = nil
		}
		w.mu.Unlock()
		err = w.watcher.Close()
	})
	return err
}

// handleEvent filters and queues a file system event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.shouldIgnore(path, true) {
				if err := w.addTree(path); err != nil {
					w.logger.Warn("Failed to watch new directory", "path", path, "error", err)
				}
			}
			return
		}
	}

	if !parser.HasSourceExtension(path) || w.shouldIgnore(path, false) {
		return
	}

	op := opName(event.Op)
	if op == "" {
		return
	}

	w.logger.Debug("File event", "op", op, "file", path)

	// Invalidate right away so a request racing the debounce window never
	// reads a stale parse.
	if w.invalidate != nil {
		w.invalidate(path)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = WatchEvent{FilePath: path, Op: op, Timestamp: time.Now()}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(time.Duration(w.options.DebounceMs)*time.Millisecond, w.flush)
}

// flush delivers the pending batch.
func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	batch := make([]WatchEvent, 0, len(w.pending))
	for _, ev := range w.pending {
		batch = append(batch, ev)
	}
	w.pending = make(map[string]WatchEvent)
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	sort.Slice(batch, func(i, j int) bool { return batch[i].FilePath < batch[j].FilePath })

	w.logger.Debug("Delivering change batch", "files", len(batch))
	if w.onChange != nil {
		w.onChange(batch)
	}
}

// shouldIgnore matches path, relative to the root, against the ignore
// patterns.
func (w *Watcher) shouldIgnore(path string, isDir bool) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	return matchesAny(w.options.IgnorePatterns, filepath.ToSlash(rel), isDir)
}

func opName(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "CREATE"
	case op.Has(fsnotify.Write):
		return "WRITE"
	case op.Has(fsnotify.Remove):
		return "REMOVE"
	case op.Has(fsnotify.Rename):
		return "RENAME"
	default:
		return ""
	}
}
