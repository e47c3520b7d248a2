package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/waycore/internal/logging"
)

// reloadDebounce coalesces the write bursts editors produce when saving.
const reloadDebounce = 100 * time.Millisecond

// ReloadFunc is called with the freshly loaded configuration after the
// watched file changes.
type ReloadFunc func(cfg *Config)

// Watcher reloads the configuration when its file changes on disk. The
// parent directory is watched rather than the file itself so that the
// rename-over-save pattern editors use is still observed.
type Watcher struct {
	path   string
	fw     *fsnotify.Watcher
	log    *logging.Logger
	reload ReloadFunc

	mu      sync.Mutex
	timer   *time.Timer
	closed  bool
	closeCh chan struct{}
	doneCh  chan struct{}
}

// Watch starts watching path and calls reload on each successful load.
// Load failures are logged and the previous configuration stays in
// effect.
func Watch(path string, log *logging.Logger, reload ReloadFunc) (*Watcher, error) {
	if log == nil {
		log = logging.Discard()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		fw.Close()
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    abs,
		fw:      fw,
		log:     log.WithComponent("config-watcher"),
		reload:  reload,
		closeCh: make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.doneCh)
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error: %v", err)
		case <-w.closeCh:
			return
		}
	}
}

// scheduleReload arms the debounce timer, restarting it if a change
// arrives while one is already pending.
func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(reloadDebounce, w.doReload)
}

func (w *Watcher) doReload() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	cfg, err := Load(w.path)
	if err != nil {
		w.log.Error("reload failed, keeping previous config: %v", err)
		return
	}
	w.log.Info("config reloaded from %s", w.path)
	w.reload(cfg)
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fw.Close()
	<-w.doneCh
	return err
}
