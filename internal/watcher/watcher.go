// Package watcher notifies when hierarchy file changes on disk.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 200 * time.Millisecond

var ErrFileRemoved = errors.New("watched file was removed")

// Watcher reports changes of one file.
// Directory of the file is watched, so that editors replacing file atomically are noticed too.
type Watcher struct {
	path     string
	debounce time.Duration
	fs       *fsnotify.Watcher
}

// New starts watching path. Zero debounce means DefaultDebounce.
func New(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fs.Add(filepath.Dir(abs)); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{path: abs, debounce: debounce, fs: fs}, nil
}

func (w *Watcher) Path() string { return w.path }

// Run calls onChange once burst of writes settles and onError on removal of file or watcher errors.
// Blocks until ctx is done, watcher is closed afterwards.
func (w *Watcher) Run(ctx context.Context, onChange func(), onError func(error)) {
	defer w.fs.Close()

	name := filepath.Base(w.path)
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-fire:
			fire = nil
			onChange()
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			switch {
			case event.Op&fsnotify.Remove != 0:
				onError(ErrFileRemoved)
			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				fire = time.After(w.debounce)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			onError(err)
		}
	}
}
