// Package watch reports changes to the data file made by other programs.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups the burst of events an atomic save produces.
const DefaultDebounce = 100 * time.Millisecond

// Watcher watches one file. It watches the parent directory so files
// replaced by rename keep being noticed.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *log.Logger

	updates   chan struct{}
	closeOnce sync.Once
	done      chan struct{}
}

// New creates a watcher for path. The parent directory is created if needed.
func New(path string, logger *log.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{
		path:     abs,
		watcher:  fw,
		debounce: DefaultDebounce,
		logger:   logger,
		updates:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}, nil
}

// SetDebounce changes the debounce window. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Start processes events until ctx is done or the watcher is closed.
func (w *Watcher) Start(ctx context.Context) {
	go w.eventLoop(ctx)
}

// Updates receives a value after the file changed. Bursts are coalesced.
func (w *Watcher) Updates() <-chan struct{} {
	return w.updates
}

// Wait blocks until the next update, returning false once ctx is done or
// the watcher is closed.
func (w *Watcher) Wait(ctx context.Context) bool {
	select {
	case <-w.updates:
		return true
	case <-ctx.Done():
		return false
	case <-w.done:
		return false
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) eventLoop(ctx context.Context) {
	timer := time.NewTimer(0)
	<-timer.C // drain initial timer
	defer timer.Stop()
	pending := false

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			pending = true
			timer.Reset(w.debounce)

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			select {
			case w.updates <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Error("watch error", "path", w.path, "err", err)
			}

		case <-ctx.Done():
			return
		case <-w.done:
			return
		}
	}
}
