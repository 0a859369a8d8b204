// Package cache stores registry responses between invocations.
//
// Every backend implements [Cache], a byte-oriented store with per-entry TTLs:
//
//   - [FileCache]: one JSON file per key under a directory (the CLI default)
//   - [MemoryCache]: an in-process LRU with expiry
//   - [RedisCache]: a shared Redis instance, useful for CI runners
//   - [NullCache]: stores nothing
//
// Keys are built by a [Keyer] so that backends never need to know what they
// hold. [Open] picks a backend from [Options].
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with expiring entries. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get returns the stored bytes and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl means the entry does not expire.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any resources held by the cache.
	Close() error
}

// Keyer builds cache keys for registry lookups.
type Keyer interface {
	// MetadataKey identifies the metadata of one package version. An empty
	// version stands for the registry's latest.
	MetadataKey(registry, name, version string) string
	// VersionsKey identifies the version list of a package.
	VersionsKey(registry, name string) string
	// SearchKey identifies a search result page.
	SearchKey(registry, query string) string
}

// DefaultKeyer produces readable keys for metadata and version lists and
// hashed keys for free-form search queries.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// MetadataKey returns "meta:{registry}:{name}@{version}".
func (DefaultKeyer) MetadataKey(registry, name, version string) string {
	if version == "" {
		version = "latest"
	}
	return "meta:" + registry + ":" + name + "@" + version
}

// VersionsKey returns "versions:{registry}:{name}".
func (DefaultKeyer) VersionsKey(registry, name string) string {
	return "versions:" + registry + ":" + name
}

// SearchKey hashes the query since it may contain arbitrary text.
func (DefaultKeyer) SearchKey(registry, query string) string {
	return hashKey("search", registry, query)
}
