package watcher

import (
	"time"

	"go.trai.ch/memo/internal/core/ports"
)

// DefaultDebounceWindow is the default time window for debouncing file events.
const DefaultDebounceWindow = 50 * time.Millisecond

var _ ports.TrackerFactory = (*Factory)(nil)

// Factory creates a Tracker per watch session.
type Factory struct {
	window time.Duration
	logger ports.Logger
}

// NewFactory returns a Factory whose trackers coalesce events over window.
func NewFactory(window time.Duration, logger ports.Logger) *Factory {
	return &Factory{window: window, logger: logger}
}

// NewWatchTracker implements ports.TrackerFactory.
func (f *Factory) NewWatchTracker() (ports.WatchTracker, error) {
	return NewTracker(f.window, f.logger)
}
