package assets

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/x3d/internal/logger"
)

// Watcher reports files that changed on disk. Bursts of events for the same
// file within the delay collapse into one change.
//
// Parent directories are watched rather than the files, so editors that save
// by renaming a temporary file are still seen.
type Watcher struct {
	fsw     *fsnotify.Watcher
	delay   time.Duration
	changes chan string
	done    chan struct{}
	wg      sync.WaitGroup

	mu     sync.Mutex
	files  map[string]bool
	dirs   map[string]bool
	timers map[string]*time.Timer
}

// NewWatcher starts a watcher with the given debounce delay.
func NewWatcher(delay time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:     fsw,
		delay:   delay,
		changes: make(chan string, 16),
		done:    make(chan struct{}),
		files:   make(map[string]bool),
		dirs:    make(map[string]bool),
		timers:  make(map[string]*time.Timer),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Add starts watching path.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.dirs[dir] {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}
	w.files[abs] = true
	logger.Debug("watching file", zap.String("path", abs))
	return nil
}

// Changes delivers the absolute path of each changed file.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Close stops the watcher. Pending changes are dropped.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()

	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.touch(filepath.Clean(event.Name))
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("file watcher error", zap.Error(err))
		}
	}
}

// touch restarts the debounce timer of a watched file.
func (w *Watcher) touch(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touchLocked(path)
}

// touchLocked is touch with w.mu held. A timer that has already fired may
// have its callback waiting on w.mu, so it is replaced rather than reset;
// the callback of a replaced timer sends nothing.
func (w *Watcher) touchLocked(path string) {
	if !w.files[path] {
		return
	}
	if t, ok := w.timers[path]; ok && t.Stop() {
		t.Reset(w.delay)
		return
	}
	var t *time.Timer
	t = time.AfterFunc(w.delay, func() {
		w.mu.Lock()
		if w.timers[path] != t {
			w.mu.Unlock()
			return
		}
		delete(w.timers, path)
		w.mu.Unlock()
		select {
		case w.changes <- path:
		case <-w.done:
		}
	})
	w.timers[path] = t
}

// Watch adds the file behind an asset name to w.
func (m *Manager) Watch(w *Watcher, name string) error {
	return w.Add(m.Path(name))
}
