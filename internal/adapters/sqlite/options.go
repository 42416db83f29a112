package sqlite

import (
	"time"

	"go.trai.ch/memo/internal/core/domain"
)

// Option configures a Store.
type Option func(*Store)

// WithDefaultTTL sets the TTL applied when Put is called with a non-positive ttl.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.defaultTTL = ttl
		}
	}
}

// WithCheckFrequency sets the interval of the background expiry sweep.
func WithCheckFrequency(interval time.Duration) Option {
	return func(s *Store) {
		if interval > 0 {
			s.checkFrequency = interval
		}
	}
}

// WithClock replaces the time source used for expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// optionsFrom converts store options resolved from configuration.
func optionsFrom(opts domain.StoreOptions) []Option {
	return []Option{
		WithDefaultTTL(opts.DefaultTTL),
		WithCheckFrequency(opts.CheckFrequency),
	}
}
