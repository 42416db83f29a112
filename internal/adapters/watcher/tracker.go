package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.WatchTracker = (*Tracker)(nil)

// Tracker implements ports.WatchTracker on fsnotify.
//
// File dependencies are watched through their parent directory so that editors
// replacing a file with a rename are still observed. Context dependencies are
// directories; any entry created, written, removed or renamed inside one
// counts as a change of that directory.
type Tracker struct {
	fsWatcher *fsnotify.Watcher
	logger    ports.Logger
	debouncer *Debouncer

	mu       sync.Mutex
	files    map[string]struct{}
	contexts map[string]struct{}
	watched  map[string]struct{}

	changes   chan []string
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewTracker creates a tracker that coalesces changes over window.
func NewTracker(window time.Duration, logger ports.Logger) (*Tracker, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create file watcher")
	}

	t := &Tracker{
		fsWatcher: fsWatcher,
		logger:    logger,
		files:     make(map[string]struct{}),
		contexts:  make(map[string]struct{}),
		watched:   make(map[string]struct{}),
		changes:   make(chan []string, 1),
		done:      make(chan struct{}),
	}
	t.debouncer = NewDebouncer(window, t.publish)

	t.wg.Add(1)
	go t.processEvents()

	return t, nil
}

// AddDependency watches a file dependency.
func (t *Tracker) AddDependency(path string) {
	abs, ok := t.abs(path)
	if !ok {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.files[abs] = struct{}{}
	t.watchLocked(filepath.Dir(abs))
}

// AddContextDependency watches a directory dependency.
func (t *Tracker) AddContextDependency(path string) {
	abs, ok := t.abs(path)
	if !ok {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.contexts[abs] = struct{}{}
	t.watchLocked(abs)
	// Removal or rename of the directory itself is reported on its parent.
	t.watchLocked(filepath.Dir(abs))
}

// Changed blocks until at least one tracked path changes.
func (t *Tracker) Changed(ctx context.Context) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.done:
		return nil, zerr.New("tracker closed")
	case paths := <-t.changes:
		return paths, nil
	}
}

// Close stops watching and releases the underlying watcher.
func (t *Tracker) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.done)
		err = t.fsWatcher.Close()
		t.wg.Wait()
	})
	return err
}

// Tracked reports whether path is a registered dependency.
func (t *Tracker) Tracked(path string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, isFile := t.files[path]
	_, isContext := t.contexts[path]
	return isFile || isContext
}

func (t *Tracker) abs(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		t.warn(fmt.Sprintf("cannot watch %s: %v", path, err))
		return "", false
	}
	return abs, true
}

func (t *Tracker) watchLocked(dir string) {
	if _, ok := t.watched[dir]; ok {
		return
	}
	if err := t.fsWatcher.Add(dir); err != nil {
		t.warn(fmt.Sprintf("cannot watch %s: %v", dir, err))
		return
	}
	t.watched[dir] = struct{}{}
}

// relevant maps a raw event to the tracked path it affects.
func (t *Tracker) relevant(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return "", false
	}

	name := filepath.Clean(event.Name)

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.files[name]; ok {
		return name, true
	}
	if _, ok := t.contexts[name]; ok {
		return name, true
	}
	if parent := filepath.Dir(name); parent != name {
		if _, ok := t.contexts[parent]; ok {
			return parent, true
		}
	}
	return "", false
}

func (t *Tracker) processEvents() {
	defer t.wg.Done()

	for {
		select {
		case <-t.done:
			return
		case event, ok := <-t.fsWatcher.Events:
			if !ok {
				return
			}
			if path, ok := t.relevant(event); ok {
				t.debouncer.Add(path)
			}
		case err, ok := <-t.fsWatcher.Errors:
			if !ok {
				return
			}
			t.warn(fmt.Sprintf("file watcher error: %v", err))
		}
	}
}

// publish hands a batch to Changed, merging it with an unread batch.
func (t *Tracker) publish(paths []string) {
	for {
		select {
		case <-t.done:
			return
		case t.changes <- paths:
			return
		case pending := <-t.changes:
			paths = mergeSorted(pending, paths)
		}
	}
}

func (t *Tracker) warn(msg string) {
	if t.logger != nil {
		t.logger.Warn(msg)
	}
}

func mergeSorted(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, p := range append(append([]string{}, a...), b...) {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}
