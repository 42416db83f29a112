package ports

import "context"

// DependencyTracker receives the dependencies of a cache hit so the host can
// invalidate the result when they change.
//
//go:generate mockgen -source=tracker.go -destination=mocks/mock_tracker.go -package=mocks
type DependencyTracker interface {
	AddDependency(path string)
	AddContextDependency(path string)
}

// WatchTracker is a DependencyTracker that watches the registered paths.
type WatchTracker interface {
	DependencyTracker

	// Changed blocks until at least one tracked path changes and returns the
	// changed paths, coalesced over a short window.
	Changed(ctx context.Context) ([]string, error)

	// Close stops watching.
	Close() error
}

// TrackerFactory creates a fresh WatchTracker for every watch session.
type TrackerFactory interface {
	NewWatchTracker() (WatchTracker, error)
}
