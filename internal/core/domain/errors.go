package domain

import (
	"go.trai.ch/zerr"
)

var (
	// ErrEntryNotFound is returned when a key has no stored entry or its entry has expired.
	ErrEntryNotFound = zerr.New("cache entry not found")

	// ErrStoreOpenFailed is returned when the entry store cannot be opened or migrated.
	ErrStoreOpenFailed = zerr.New("failed to open entry store")

	// ErrStoreReadFailed is returned when the entry store cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read cache entry")

	// ErrStoreWriteFailed is returned when the entry store cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write cache entry")

	// ErrStoreClosed is returned when an operation is attempted on a closed store.
	ErrStoreClosed = zerr.New("entry store is closed")

	// ErrEntryDecodeFailed is returned when a stored value is not a valid entry.
	ErrEntryDecodeFailed = zerr.New("failed to decode cache entry")

	// ErrEntryEncodeFailed is returned when an entry cannot be serialized.
	ErrEntryEncodeFailed = zerr.New("failed to encode cache entry")

	// ErrCollision is returned when the stored entry belongs to a different request.
	ErrCollision = zerr.New("cache key collision")

	// ErrStale is returned when a recorded dependency changed since the entry was stored.
	ErrStale = zerr.New("dependency modified since entry was stored")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidDuration is returned when a duration setting cannot be parsed.
	ErrInvalidDuration = zerr.New("invalid duration")

	// ErrInvalidConcurrency is returned when the stat concurrency is not positive.
	ErrInvalidConcurrency = zerr.New("stat concurrency must be positive")

	// ErrNoCommand is returned when memo run is invoked without a command.
	ErrNoCommand = zerr.New("no command specified")

	// ErrCommandFailed is returned when the wrapped command exits unsuccessfully.
	ErrCommandFailed = zerr.New("command failed")

	// ErrCleanFailed is returned when the cache directory cannot be removed.
	ErrCleanFailed = zerr.New("failed to remove cache directory")
)

// StatError reports a dependency path that could not be stat'ed.
type StatError struct {
	Path string
	Err  error
}

// Error implements error.
func (e *StatError) Error() string {
	return "failed to stat dependency " + e.Path + ": " + e.Err.Error()
}

// Unwrap returns the underlying stat failure.
func (e *StatError) Unwrap() error {
	return e.Err
}
