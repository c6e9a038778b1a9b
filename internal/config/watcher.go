package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/glm-tools/glm-usage-tui/internal/logger"
)

// Watcher watches the loaded .env file and signals when it changes, so the
// running TUI can pick up edited credentials or intervals without a restart.
type Watcher struct {
	watcher       *fsnotify.Watcher
	changes       chan struct{}
	stopChan      chan struct{}
	debounceTimer *time.Timer
	envFile       string
}

// NewWatcher starts watching the given .env file. An empty path (no .env
// file was loaded) returns a watcher that never fires.
func NewWatcher(envFile string) (*Watcher, error) {
	w := &Watcher{
		changes:  make(chan struct{}, 1),
		stopChan: make(chan struct{}),
		envFile:  envFile,
	}

	if envFile == "" {
		return w, nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w.watcher = fsw

	// Watch the directory to catch editors that replace the file
	if err := fsw.Add(filepath.Dir(envFile)); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return nil, err
	}

	go w.watchLoop()
	return w, nil
}

// Changes returns the channel that receives a signal after the .env file
// changes. Rapid successive writes are debounced into one signal.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

func (w *Watcher) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filepath.Base(w.envFile) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if w.debounceTimer != nil {
					w.debounceTimer.Stop()
				}
				w.debounceTimer = time.AfterFunc(debounceInterval, w.signal)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("config watcher error", "error", err)

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) signal() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.stopChan)
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
