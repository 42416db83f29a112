// Package domain contains the core types of the memo cache.
package domain

// Key identifies a cache entry. It is the hex encoded 64-bit fingerprint of a
// namespace and request descriptor pair.
type Key string

// String returns the key as a plain string.
func (k Key) String() string {
	return string(k)
}

// DependencyRecord captures a dependency path together with its modification
// time in milliseconds since the Unix epoch at the moment it was recorded.
type DependencyRecord struct {
	Path  string `msgpack:"path"`
	Mtime int64  `msgpack:"mtime"`
}

// Entry is the persisted form of a cached computation.
type Entry struct {
	// RequestDescriptor and CacheNamespace are stored verbatim so a lookup can
	// detect fingerprint collisions.
	RequestDescriptor   string             `msgpack:"requestDescriptor"`
	CacheNamespace      string             `msgpack:"cacheNamespace"`
	Dependencies        []DependencyRecord `msgpack:"dependencies"`
	ContextDependencies []DependencyRecord `msgpack:"contextDependencies"`
	Result              []any              `msgpack:"result"`
}

// Matches reports whether the entry was stored for the given namespace and
// descriptor.
func (e *Entry) Matches(namespace, descriptor string) bool {
	return e.CacheNamespace == namespace && e.RequestDescriptor == descriptor
}

// Records returns the dependency records followed by the context dependency
// records.
func (e *Entry) Records() []DependencyRecord {
	records := make([]DependencyRecord, 0, len(e.Dependencies)+len(e.ContextDependencies))
	records = append(records, e.Dependencies...)
	return append(records, e.ContextDependencies...)
}

// Hit is the outcome of a validated lookup.
type Hit struct {
	Result              []any
	Dependencies        []DependencyRecord
	ContextDependencies []DependencyRecord
}

// StoreStats summarizes the rows held by an entry store.
type StoreStats struct {
	Live    int64
	Expired int64
}

// Total returns the number of rows physically present.
func (s StoreStats) Total() int64 {
	return s.Live + s.Expired
}
