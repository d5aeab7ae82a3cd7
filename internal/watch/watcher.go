// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs the render pipeline when the document or one of its
// resources changes. Filesystem events are debounced so editor write/rename
// bursts collapse into a single re-render.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the delay before re-rendering after the last filesystem
// event.
const defaultDebounce = 500 * time.Millisecond

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Document is the absolute path of the document to watch.
		Document string

		// Patterns are the resource glob patterns from the command line,
		// matched with doublestar semantics against changed paths.
		Patterns []string

		// Debounce is the quiet period after the last event before OnChange
		// fires. Zero or negative values fall back to defaultDebounce.
		Debounce time.Duration

		// OnChange is invoked after the debounce window closes. A nil
		// callback is a no-op.
		OnChange func(ctx context.Context) error

		// Logger receives watch diagnostics. nil defaults to log.Default().
		Logger *log.Logger
	}

	// Watcher monitors the document and resource files and fires a debounced
	// re-render callback. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		document string
		patterns []string
		debounce time.Duration
		logger   *log.Logger
		started  atomic.Bool
	}
)

// New creates a Watcher. It registers the document's directory and the base
// directory of every resource pattern (recursively, so "**" patterns keep
// matching in subdirectories created later).
func New(cfg Config) (*Watcher, error) {
	document, err := filepath.Abs(cfg.Document)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve document path: %w", err)
	}

	patterns := make([]string, 0, len(cfg.Patterns))
	for _, pat := range cfg.Patterns {
		if _, err := doublestar.Match(filepath.ToSlash(pat), ""); err != nil {
			return nil, fmt.Errorf("watch: invalid pattern %q: %w", pat, err)
		}
		abs, err := filepath.Abs(pat)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve pattern %q: %w", pat, err)
		}
		patterns = append(patterns, filepath.ToSlash(abs))
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		document: document,
		patterns: patterns,
		debounce: debounce,
		logger:   logger,
	}

	if err := w.addDirectories(); err != nil {
		fsw.Close() //nolint:errcheck // best-effort cleanup
		return nil, err
	}

	return w, nil
}

// addDirectories registers the document directory plus the fixed base
// directory of every pattern, walking into subdirectories for recursive
// patterns.
func (w *Watcher) addDirectories() error {
	if err := w.fsw.Add(filepath.Dir(w.document)); err != nil {
		return fmt.Errorf("watch: add document directory: %w", err)
	}

	for _, pat := range w.patterns {
		base, _ := doublestar.SplitPattern(pat)
		root := filepath.FromSlash(base)
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return nil //nolint:nilerr // unreadable entries are skipped, not fatal
			}
			if addErr := w.fsw.Add(path); addErr != nil {
				w.logger.Warn("could not watch directory", "dir", path, "err", addErr)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("watch: register pattern base %q: %w", root, err)
		}
	}

	return nil
}

// matches reports whether a changed path is the document or a resource.
func (w *Watcher) matches(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	if abs == w.document {
		return true
	}
	slashed := filepath.ToSlash(abs)
	for _, pat := range w.patterns {
		if ok, err := doublestar.Match(pat, slashed); err == nil && ok {
			return true
		}
	}
	return false
}

// Run blocks until ctx is cancelled, re-rendering on debounced changes.
// It returns nil on clean cancellation. Run must be called exactly once;
// a second call returns an error immediately.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}
	defer w.fsw.Close() //nolint:errcheck // nothing to do with a close error on shutdown

	var (
		mu      sync.Mutex
		timer   *time.Timer
		pending bool
		running atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			// Previous render still in progress; retry after another window
			// so the pending change is not lost.
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if !pending {
			mu.Unlock()
			return
		}
		pending = false
		mu.Unlock()

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx); err != nil {
				w.logger.Error("re-render failed", "err", err)
			}
		}
	}

	w.logger.Info("watching for changes", "document", w.document)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			// New directories must be registered so recursive patterns keep
			// seeing events beneath them.
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.fsw.Add(event.Name); err != nil {
						w.logger.Warn("could not watch new directory", "dir", event.Name, "err", err)
					}
					continue
				}
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.matches(event.Name) {
				continue
			}
			w.logger.Debug("change detected", "path", event.Name)
			mu.Lock()
			pending = true
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)
		}
	}
}
