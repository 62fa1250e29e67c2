package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"link_auditor/internal/pkg/errors"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Filter reports whether a changed path should trigger a re-audit.
type Filter func(path string) bool

// ChangeHandler receives the deduplicated, sorted set of paths changed within one debounce window.
type ChangeHandler func(ctx context.Context, paths []string) error

// Watcher watches directory trees recursively and batches changes.
type Watcher struct {
	watcher *fsnotify.Watcher
	delay   time.Duration
	skipDir func(name string) bool
	filters []Filter
	log     *log.Logger

	mu      sync.Mutex
	pending map[string]struct{}
}

// NewWatcher creates a watcher whose batches fire once no event has arrived for delay.
// skipDir names directories that are never watched; it may be nil.
func NewWatcher(delay time.Duration, skipDir func(name string) bool, log *log.Logger, filters ...Filter) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, `failed to create file watcher`)
	}
	if skipDir == nil {
		skipDir = func(string) bool { return false }
	}
	return &Watcher{
		watcher: w,
		delay:   delay,
		skipDir: skipDir,
		filters: filters,
		log:     log,
		pending: map[string]struct{}{},
	}, nil
}

// AddRecursive watches root and every directory below it. A missing root is not an error.
func (w *Watcher) AddRecursive(root string) error {
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		w.log.WithField(`path`, root).Warn(`watch root does not exist`)
		return nil
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.log.WithError(err).WithField(`path`, path).Warn(`failed to walk watch root`)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return errors.Wrap(err, `failed to watch `+path)
		}
		w.log.WithField(`path`, path).Debug(`watching directory`)
		return nil
	})
}

// Run delivers change batches to onChange until ctx is done. Handler errors are logged.
func (w *Watcher) Run(ctx context.Context, onChange ChangeHandler) error {
	defer w.watcher.Close()

	timer := time.NewTimer(w.delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(event) {
				timer.Reset(w.delay)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn(`file watcher error`)
		case <-timer.C:
			paths := w.drain()
			if len(paths) == 0 {
				continue
			}
			w.log.WithField(`changed`, len(paths)).Info(`source change detected`)
			if err := onChange(ctx, paths); err != nil {
				w.log.WithError(err).Error(`change handler failed`)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}

	// new directories join the watch set
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if w.skipDir(filepath.Base(event.Name)) {
				return false
			}
			if err := w.AddRecursive(event.Name); err != nil {
				w.log.WithError(err).Warn(`failed to watch new directory`)
			}
			w.add(event.Name)
			return true
		}
	}

	// removed directories can no longer be stat'ed
	if event.Has(fsnotify.Remove) && filepath.Ext(event.Name) == "" {
		w.add(event.Name)
		return true
	}

	for _, filter := range w.filters {
		if !filter(event.Name) {
			return false
		}
	}
	w.add(event.Name)
	return true
}

func (w *Watcher) add(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[path] = struct{}{}
}

func (w *Watcher) drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = map[string]struct{}{}
	sort.Strings(paths)
	return paths
}

// ExtensionFilter passes paths whose extension is in exts.
func ExtensionFilter(exts []string) Filter {
	return func(path string) bool {
		ext := filepath.Ext(path)
		for _, e := range exts {
			if e == ext {
				return true
			}
		}
		return false
	}
}
