package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
)

var _ ports.StoreOpener = (*Registry)(nil)

// Registry shares one Store per cache directory across the process.
type Registry struct {
	mu      sync.Mutex
	handles map[string]*handle
}

type handle struct {
	once  sync.Once
	store *Store
	err   error
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		handles: make(map[string]*handle),
	}
}

// Open returns the Store for dir. The first caller opens it; concurrent and
// later callers for the same directory receive the same Store. A failed open
// is reported to every caller waiting on it and retried by the next call.
func (r *Registry) Open(ctx context.Context, dir string, opts domain.StoreOptions) (ports.EntryStore, error) {
	key := dir
	if abs, err := filepath.Abs(dir); err == nil {
		key = abs
	}

	r.mu.Lock()
	h, ok := r.handles[key]
	if !ok {
		h = &handle{}
		r.handles[key] = h
	}
	r.mu.Unlock()

	h.once.Do(func() {
		h.store, h.err = Open(ctx, key, optionsFrom(opts)...)
	})

	if h.err != nil {
		r.mu.Lock()
		if r.handles[key] == h {
			delete(r.handles, key)
		}
		r.mu.Unlock()
		return nil, h.err
	}

	return h.store, nil
}

// Close closes every Store opened through the registry.
func (r *Registry) Close() error {
	r.mu.Lock()
	handles := r.handles
	r.handles = make(map[string]*handle)
	r.mu.Unlock()

	var errs error
	for _, h := range handles {
		// Waits for an open still in progress.
		h.once.Do(func() {})
		if h.store != nil {
			errs = errors.Join(errs, h.store.Close())
		}
	}
	return errs
}
