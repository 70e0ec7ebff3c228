package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/philipp01105/sinklog/internal/diag"
)

// DefaultDebounce is how long the watcher waits for further writes
// before reloading.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a FileSource whenever the file changes and hands the
// new settings to a callback. Editors often write a file in several
// steps, so events are debounced.
type Watcher struct {
	source   *FileSource
	debounce time.Duration
	onChange func(Settings)

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher creates a watcher for source. A zero debounce uses
// DefaultDebounce.
func NewWatcher(source *FileSource, debounce time.Duration, onChange func(Settings)) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{source: source, debounce: debounce, onChange: onChange}
}

// Run watches until ctx is cancelled. The directory is watched rather
// than the file so atomic renames are observed.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.source.Path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	diag.Info("ConfigWatcher", "Watching %s for configuration changes", w.source.Path)

	target := filepath.Clean(w.source.Path)
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			diag.Error("ConfigWatcher", err, "Filesystem watcher error")
		}
	}
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.reload(ctx) })
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Watcher) reload(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	s, err := w.source.Load(ctx)
	if err != nil {
		diag.Warn("ConfigWatcher", "Ignoring configuration change: %v", err)
		return
	}
	w.onChange(s)
}
