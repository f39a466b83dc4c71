package tuning

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of filesystem events editors fire per
// save into one reload.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports changes to tuning and scenario files so the runner can
// hot-reload them. Events carries the changed file path, debounced per file.
//
// The run goroutine owns both channels and closes them on exit, so Close may
// be called while events are still pending.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration

	Events chan string
	Errors chan error

	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher watches the given directories for tuning (.yaml/.yml) and
// scenario (.tengo) file changes. A non-positive debounce falls back to
// DefaultDebounce.
func NewWatcher(debounce time.Duration, dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	watcher := &Watcher{
		watcher:  w,
		debounce: debounce,
		Events:   make(chan string, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher. Events and Errors are closed by the run goroutine
// once it has wound down.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	lastSent := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !watchedFile(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := lastSent[event.Name]; ok && now.Sub(t) < w.debounce {
				continue
			}
			lastSent[event.Name] = now
			select {
			case w.Events <- event.Name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			case <-w.closeCh:
				return
			}
		case <-w.closeCh:
			return
		}
	}
}

func watchedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".tengo":
		return true
	}
	return false
}
