// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

// Package watch reports changes to a plugins directory tree so the host can
// reload plugin manifests.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/oops"
)

// DefaultDebounce is how long the watcher waits for a burst of changes to
// settle before signalling.
const DefaultDebounce = 250 * time.Millisecond

// Watcher watches a directory and its immediate subdirectories. A burst of
// filesystem events collapses into a single signal on Changes.
type Watcher struct {
	dir      string
	debounce time.Duration
	logger   *slog.Logger

	fsw     *fsnotify.Watcher
	changes chan struct{}

	mu      sync.Mutex
	watched map[string]bool

	done chan struct{}
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the settle delay.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

// New creates a watcher for dir. The directory must exist.
func New(dir string, opts ...Option) (*Watcher, error) {
	dir = filepath.Clean(dir)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, oops.In("watch").With("dir", dir).Wrapf(err, "stat plugins directory")
	}
	if !info.IsDir() {
		return nil, oops.In("watch").With("dir", dir).Errorf("not a directory")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, oops.In("watch").Wrapf(err, "create fsnotify watcher")
	}

	w := &Watcher{
		dir:      dir,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		fsw:      fsw,
		changes:  make(chan struct{}, 1),
		watched:  make(map[string]bool),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		_ = fsw.Close()
		return nil, oops.In("watch").With("dir", dir).Wrapf(err, "read plugins directory")
	}
	for _, e := range entries {
		if e.IsDir() {
			if err := w.add(filepath.Join(dir, e.Name())); err != nil {
				w.logger.Warn("failed to watch plugin directory", "dir", e.Name(), "error", err)
			}
		}
	}

	return w, nil
}

// Changes delivers one value per settled burst of changes. It is closed
// when Run returns.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Run processes events until ctx is cancelled or Close is called.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.changes)

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("plugins directory changed", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			select {
			case w.changes <- struct{}{}:
			default:
				// A signal is already pending.
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("plugins directory watcher error", "error", err)
		}
	}
}

// Close stops the watcher. Run returns shortly after.
func (w *Watcher) Close() error {
	w.mu.Lock()
	select {
	case <-w.done:
		w.mu.Unlock()
		return nil
	default:
		close(w.done)
	}
	w.mu.Unlock()

	if err := w.fsw.Close(); err != nil {
		return oops.In("watch").Wrapf(err, "close fsnotify watcher")
	}
	return nil
}

// relevant reports whether event can change the set of plugin manifests,
// starting to watch new subdirectories as they appear.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}

	if event.Has(fsnotify.Create) && filepath.Dir(event.Name) == w.dir {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.add(event.Name); err != nil {
				w.logger.Warn("failed to watch plugin directory", "dir", event.Name, "error", err)
			}
		}
	}
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.mu.Lock()
		delete(w.watched, event.Name)
		w.mu.Unlock()
	}
	return true
}

func (w *Watcher) add(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watched[dir] {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return oops.In("watch").With("dir", dir).Wrapf(err, "watch directory")
	}
	w.watched[dir] = true
	return nil
}
