package asset

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debounce = 100 * time.Millisecond

// Watcher reports changed files below a root directory as slash separated
// paths relative to that root
type Watcher struct {
	watcher *fsnotify.Watcher
	root    string
	logger  *zap.Logger
	Events  chan string
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher watches root and every directory below it
func NewWatcher(root string, logger *zap.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	watcher := &Watcher{
		watcher: w,
		root:    root,
		logger:  logger,
		Events:  make(chan string, 64),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	if err := watcher.addTree(root); err != nil {
		_ = w.Close()
		return nil, err
	}

	go watcher.run()
	return watcher, nil
}

// Close stops watching. Events is closed once the watch loop has exited.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// run coalesces bursts of events per file and emits a path once it has
// been quiet for the debounce interval, so a truncate followed by a write
// yields a single reload of the final contents.
func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.Events)

	ticker := time.NewTicker(debounce / 4)
	defer ticker.Stop()

	pending := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 && isDir(event.Name) {
				if err := w.addTree(event.Name); err != nil {
					w.logger.Debug("watch new directory", zap.Error(err))
				}
				continue
			}
			pending[event.Name] = time.Now()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Debug("watcher error", zap.Error(err))
		case now := <-ticker.C:
			for name, seen := range pending {
				if now.Sub(seen) < debounce {
					continue
				}
				delete(pending, name)

				rel, err := filepath.Rel(w.root, name)
				if err != nil {
					continue
				}
				select {
				case w.Events <- filepath.ToSlash(rel):
				case <-w.closeCh:
					return
				}
			}
		case <-w.closeCh:
			return
		}
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
