package ports

import (
	"context"
	"time"

	"go.trai.ch/memo/internal/core/domain"
)

// EntryStore persists encoded cache entries with a time to live.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type EntryStore interface {
	// Get returns the stored value for key.
	// It returns domain.ErrEntryNotFound if the key is absent or expired.
	Get(ctx context.Context, key domain.Key) ([]byte, error)

	// Put stores value under key, replacing any previous value and restarting
	// its TTL. A non-positive ttl selects the store default.
	Put(ctx context.Context, key domain.Key, value []byte, ttl time.Duration) error

	// Stats reports how many rows are live and how many are expired but not yet swept.
	Stats(ctx context.Context) (domain.StoreStats, error)
}

// StoreOpener hands out the shared entry store of a cache directory.
type StoreOpener interface {
	// Open returns the store for dir, opening it on first use.
	// Failures are reported as domain.ErrStoreOpenFailed.
	Open(ctx context.Context, dir string, opts domain.StoreOptions) (EntryStore, error)

	// Close releases every store opened so far.
	Close() error
}
