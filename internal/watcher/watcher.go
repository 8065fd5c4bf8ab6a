// Package watcher provides debounced file system watching for board directories.
package watcher

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces bursts (a column commit rewrites the store through
// a temp file and a lock file) into a single reload.
const debounceDelay = 100 * time.Millisecond

// Watcher watches board directories and invokes a callback, debounced, when
// something that affects the board changes.
type Watcher struct {
	fsw      *fsnotify.Watcher
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
	ignore   func(name string) bool
}

// New creates a Watcher over paths. Lock files, temp files and the activity
// log are ignored.
func New(paths []string, callback func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, p := range paths {
		if err := fsw.Add(p); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	return &Watcher{
		fsw:      fsw,
		callback: callback,
		ignore:   Ignored,
	}, nil
}

// Ignored reports whether a change to name should not trigger a reload.
func Ignored(name string) bool {
	base := filepath.Base(name)
	switch {
	case strings.HasSuffix(base, ".lock"),
		strings.HasSuffix(base, ".tmp"),
		strings.HasPrefix(base, "."),
		base == "activity.jsonl":
		return true
	}
	return false
}

// Run starts the watch loop. It blocks until the context is canceled.
// Errors from the underlying watcher are passed to the optional errFn callback.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if w.ignore(event.Name) {
				continue
			}
			w.debounce()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) debounce() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceDelay, w.callback)
}
