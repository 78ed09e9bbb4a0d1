package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bassista/go_jsonupdate/internal/logger"
	"github.com/fsnotify/fsnotify"
)

// StartWatcher invalidates cached documents when files under dir change on disk.
// It watches directories (not files) so atomic replace sequences (temp+rename)
// are still observed. Events are debounced per path so a write+chmod+rename
// burst causes a single invalidation. Subdirectories created later are added to
// the watch. The caller owns ctx: cancel it to stop the goroutine and close the
// watcher. The returned channel is closed once the watcher has stopped.
func StartWatcher(ctx context.Context, dir string, debounce time.Duration, target Invalidator) (<-chan struct{}, error) {
	if target == nil {
		return nil, errors.New("invalidation target is required")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := addTree(watcher, dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch dir: %w", err)
	}

	log := logger.WithComponent("watcher")
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer watcher.Close()

		var mu sync.Mutex
		timers := make(map[string]*time.Timer)
		schedule := func(path string) {
			if debounce <= 0 {
				target.Invalidate(path)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if t, ok := timers[path]; ok {
				t.Stop()
			}
			timers[path] = time.AfterFunc(debounce, func() {
				mu.Lock()
				delete(timers, path)
				mu.Unlock()
				target.Invalidate(path)
				log.Debugf("invalidated %s after change on disk", path)
			})
		}
		defer func() {
			mu.Lock()
			defer mu.Unlock()
			for _, t := range timers {
				t.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						if err := addTree(watcher, event.Name); err != nil {
							log.Warnf("cannot watch new directory %s: %v", event.Name, err)
						}
						continue
					}
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Chmod|fsnotify.Remove|fsnotify.Rename) != 0 {
					schedule(event.Name)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if errors.Is(err, fsnotify.ErrEventOverflow) {
					target.InvalidateAll()
				}
				log.Warnf("watcher error: %v", err)
			}
		}
	}()

	return done, nil
}

// addTree watches dir and every directory below it.
func addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
