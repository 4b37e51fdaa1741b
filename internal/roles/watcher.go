package roles

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"resumelens/internal/errors"
)

// Watcher reloads a Registry when its catalog file changes on disk.
type Watcher struct {
	mu sync.Mutex

	registry *Registry
	file     string
	lastMod  time.Time

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}

	onReload func(error)
	logger   *errors.Logger
	running  bool
}

// NewWatcher watches the registry's file. onReload, if set, receives the
// outcome of every reload attempt.
func NewWatcher(registry *Registry, debounceDelay time.Duration, onReload func(error), logger *errors.Logger) (*Watcher, error) {
	if registry.Path() == "" {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "role catalog watch requires roles.file", nil)
	}
	if debounceDelay <= 0 {
		debounceDelay = time.Second
	}
	return &Watcher{
		registry:      registry,
		file:          registry.Path(),
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1),
		onReload:      onReload,
		logger:        logger,
	}, nil
}

func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("role catalog watcher is already running")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	// Editors and config management replace files by rename, so the
	// directory is watched rather than the file itself.
	if err := fsw.Add(filepath.Dir(w.file)); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.file), err)
	}
	if stat, err := os.Stat(w.file); err == nil {
		w.lastMod = stat.ModTime()
	}

	w.fsWatcher = fsw
	w.running = true
	go w.watchLoop()

	w.logger.Info("Role catalog watcher started", "file", w.file, "debounce_delay", w.debounceDelay)
	return nil
}

func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	close(w.stopChan)
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.running = false

	if err := w.fsWatcher.Close(); err != nil {
		w.logger.LogError(err, "Failed to close role catalog watcher")
		return err
	}
	w.logger.Info("Role catalog watcher stopped")
	return nil
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				w.scheduleReload()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.LogError(err, "Role catalog watcher error")

		case <-w.reloadChan:
			if w.changed() {
				err := w.registry.Reload()
				if w.onReload != nil {
					w.onReload(err)
				}
			}

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.file) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// changed reports whether the file's modification time moved forward.
func (w *Watcher) changed() bool {
	stat, err := os.Stat(w.file)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if stat.ModTime().Equal(w.lastMod) {
		return false
	}
	w.lastMod = stat.ModTime()
	return true
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		select {
		case w.reloadChan <- struct{}{}:
		default:
		}
	})
}
