package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounceDelay is the quiet period before a reload.
const DefaultDebounceDelay = 250 * time.Millisecond

// FileWatcher monitors config files with debouncing.
// Editors often write a file in several steps (truncate, write, rename);
// the watcher collects those events and calls onChange once after things
// settle.
type FileWatcher struct {
	// Configuration
	debounceDelay time.Duration
	files         map[string]struct{}
	logger        *zap.Logger

	// Debouncing state
	timer        *time.Timer
	timerMu      sync.Mutex
	pendingPaths map[string]struct{}

	// Callback when changes are ready
	onChange func([]string)

	// Lifecycle
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	watching bool
}

// NewWatcher creates a file watcher with the specified debounce delay.
// The onChange callback is called with changed paths after debouncing.
//
// Example:
//
//	w := NewWatcher(250*time.Millisecond, func(paths []string) {
//	    manager.Load()
//	})
//	w.Watch("stepper.yaml")
func NewWatcher(debounceDelay time.Duration, onChange func([]string)) *FileWatcher {
	if debounceDelay <= 0 {
		debounceDelay = DefaultDebounceDelay
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &FileWatcher{
		debounceDelay: debounceDelay,
		files:         make(map[string]struct{}),
		logger:        zap.NewNop(),
		pendingPaths:  make(map[string]struct{}),
		onChange:      onChange,
		ctx:           ctx,
		cancel:        cancel,
		done:          make(chan struct{}),
	}
}

// SetLogger replaces the no-op logger.
func (w *FileWatcher) SetLogger(logger *zap.Logger) {
	w.logger = logger
}

// FileChanged notifies the watcher of a file change.
// Multiple rapid calls are debounced into a single onChange callback.
// Paths that are not watched are ignored.
func (w *FileWatcher) FileChanged(path string) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if !w.isWatched(path) || w.ctx.Err() != nil {
		return
	}

	// Add to pending
	w.pendingPaths[filepath.Clean(path)] = struct{}{}

	// Reset timer
	if w.timer != nil {
		w.timer.Stop()
	}

	// Start new timer
	w.timer = time.AfterFunc(w.debounceDelay, w.processPending)
}

// ErrAlreadyWatching is returned when Watch is called twice.
var ErrAlreadyWatching = errors.New("watcher already started")

// Watch starts watching the given files. It watches their parent
// directories so that atomic replace-by-rename saves are seen.
// It may be called once per FileWatcher.
func (w *FileWatcher) Watch(paths ...string) error {
	w.timerMu.Lock()
	if w.watching {
		w.timerMu.Unlock()
		return ErrAlreadyWatching
	}
	w.watching = true
	w.timerMu.Unlock()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	dirs := make(map[string]struct{})
	w.timerMu.Lock()
	for _, p := range paths {
		clean := filepath.Clean(p)
		w.files[clean] = struct{}{}
		dirs[filepath.Dir(clean)] = struct{}{}
	}
	w.timerMu.Unlock()

	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	go w.loop(fsw)
	return nil
}

// Stop shuts down the watcher.
func (w *FileWatcher) Stop() {
	w.cancel()

	w.timerMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.timerMu.Unlock()
}

// Done is closed when the event loop started by Watch has exited.
func (w *FileWatcher) Done() <-chan struct{} {
	return w.done
}

func (w *FileWatcher) loop(fsw *fsnotify.Watcher) {
	defer close(w.done)
	defer fsw.Close()

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.FileChanged(event.Name)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watch error", zap.Error(err))
		}
	}
}

// processPending is called after debounce delay.
// It triggers the onChange callback with accumulated paths.
func (w *FileWatcher) processPending() {
	w.timerMu.Lock()

	// Collect paths
	paths := make([]string, 0, len(w.pendingPaths))
	for path := range w.pendingPaths {
		paths = append(paths, path)
	}

	// Clear pending
	w.pendingPaths = make(map[string]struct{})
	w.timer = nil
	stopped := w.ctx.Err() != nil

	w.timerMu.Unlock()

	// Trigger callback (outside lock)
	if len(paths) > 0 && !stopped && w.onChange != nil {
		w.logger.Debug("watched files changed", zap.Strings("paths", paths))
		w.onChange(paths)
	}
}

// isWatched reports whether path is one of the watched files. With no
// files registered every path is accepted. Must be called with timerMu held.
func (w *FileWatcher) isWatched(path string) bool {
	if len(w.files) == 0 {
		return true
	}
	_, ok := w.files[filepath.Clean(path)]
	return ok
}
