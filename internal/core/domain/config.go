package domain

import "time"

const (
	// Day is the unit the TTL and sweep defaults are expressed in.
	Day = 24 * time.Hour

	// DefaultTTL is how long an entry stays readable after its last write.
	DefaultTTL = 30 * Day

	// DefaultCheckFrequency is the interval between expired-entry sweeps.
	DefaultCheckFrequency = Day

	// DefaultStatConcurrency bounds the number of in-flight stat calls.
	DefaultStatConcurrency = 20

	// DefaultEnvironment is used in the cache identifier when MEMO_ENV is unset.
	DefaultEnvironment = "development"
)

// Config holds the resolved cache settings.
type Config struct {
	// CacheDirectory holds the entry database.
	CacheDirectory string
	// CacheIdentifier namespaces every key. Changing it invalidates all entries.
	CacheIdentifier string
	// TTL is the lifetime of an entry after its last write.
	TTL time.Duration
	// CheckFrequency is the interval of the background expiry sweep.
	CheckFrequency time.Duration
	// StatConcurrency bounds concurrent stat calls per operation.
	StatConcurrency int
}

// DefaultCacheIdentifier returns the namespace used when none is configured.
func DefaultCacheIdentifier(version, env string) string {
	if env == "" {
		env = DefaultEnvironment
	}
	return "memo:" + version + " " + env
}

// DefaultConfig returns the settings used before any file, environment or flag
// override is applied.
func DefaultConfig(version, env string) Config {
	return Config{
		CacheDirectory:  MemoDirName,
		CacheIdentifier: DefaultCacheIdentifier(version, env),
		TTL:             DefaultTTL,
		CheckFrequency:  DefaultCheckFrequency,
		StatConcurrency: DefaultStatConcurrency,
	}
}

// StoreOptions configures an entry store when it is opened.
type StoreOptions struct {
	DefaultTTL     time.Duration
	CheckFrequency time.Duration
}
