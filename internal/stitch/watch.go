package stitch

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/atomic"
)

// dirWatcher raises a flag when a PNG in the watched directory changes.
// The flag is set from fsnotify's goroutine and consumed on the GL thread.
type dirWatcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
	changed *atomic.Bool
}

func watchDir(dir string) (*dirWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	dw := &dirWatcher{
		watcher: w,
		done:    make(chan struct{}),
		changed: atomic.NewBool(false),
	}
	go dw.run()
	return dw, nil
}

func (dw *dirWatcher) run() {
	for {
		select {
		case <-dw.done:
			return
		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".png") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				dw.changed.Store(true)
			}
		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("stitch: watch: %v", err)
		}
	}
}

// Changed reports whether the directory changed since the last call.
func (dw *dirWatcher) Changed() bool {
	return dw.changed.Swap(false)
}

func (dw *dirWatcher) Close() error {
	close(dw.done)
	return dw.watcher.Close()
}
