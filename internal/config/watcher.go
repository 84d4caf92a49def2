package config

import (
	"path/filepath"
	"sync"
	"time"

	"resumescore/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// ReferenceWatcher watches the reference data file and swaps a freshly loaded
// snapshot into the store when the file changes. Editors often replace files
// with rename+create, so the parent directory is watched and events filtered
// by name. Events are debounced so a burst of writes loads once.
type ReferenceWatcher struct {
	path    string
	store   *ReferenceStore
	logger  *errors.Logger
	watcher *fsnotify.Watcher

	mu       sync.Mutex
	debounce *time.Timer
	done     chan struct{}
	stopOnce sync.Once
}

const referenceDebounceDelay = 500 * time.Millisecond

// NewReferenceWatcher creates a watcher for the given reference file.
func NewReferenceWatcher(path string, store *ReferenceStore, logger *errors.Logger) (*ReferenceWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to create reference watcher", err)
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to watch reference directory", err).
			WithContext("path", path)
	}

	return &ReferenceWatcher{
		path:    path,
		store:   store,
		logger:  logger,
		watcher: watcher,
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching in a background goroutine.
func (w *ReferenceWatcher) Start() {
	go w.loop()
	w.logger.Info("Reference data watcher started", "file", w.path)
}

// Stop stops the watcher and releases its resources.
func (w *ReferenceWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()

		w.mu.Lock()
		if w.debounce != nil {
			w.debounce.Stop()
		}
		w.mu.Unlock()
	})
}

func (w *ReferenceWatcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.scheduleReload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.LogError(err, "Reference watcher error", "file", w.path)
		}
	}
}

func (w *ReferenceWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.path) {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename)
}

func (w *ReferenceWatcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(referenceDebounceDelay, w.reload)
}

// reload loads a new snapshot and swaps it in. A load failure keeps the
// previous snapshot active.
func (w *ReferenceWatcher) reload() {
	select {
	case <-w.done:
		return
	default:
	}

	ref, err := LoadReference(w.path)
	if err != nil {
		w.logger.LogError(err, "Failed to reload reference data, keeping previous snapshot", "file", w.path)
		return
	}

	w.store.Swap(ref)
	w.logger.Info("Reference data reloaded",
		"file", w.path,
		"version", ref.Version,
		"roles", len(ref.Roles),
		"levels", len(ref.Levels))
}
