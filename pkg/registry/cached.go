package registry

import (
	"context"
	"encoding/json"
	"time"

	"github.com/home-lang/pantry-sub014/pkg/cache"
	"github.com/home-lang/pantry-sub014/pkg/observability"
)

// DefaultTTL is how long cached metadata stays fresh.
const DefaultTTL = 24 * time.Hour

// CachedRegistry serves metadata, version lists and searches from a cache
// before asking the registry it wraps. Downloads and publishes pass through.
type CachedRegistry struct {
	Registry
	cache cache.Cache
	keys  cache.Keyer
	ttl   time.Duration
}

// Cached wraps r with c. A nil keyer uses [cache.DefaultKeyer]; a zero ttl
// uses [DefaultTTL].
func Cached(r Registry, c cache.Cache, keys cache.Keyer, ttl time.Duration) *CachedRegistry {
	if keys == nil {
		keys = cache.NewDefaultKeyer()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedRegistry{Registry: r, cache: c, keys: keys, ttl: ttl}
}

// Unwrap returns the wrapped registry.
func (r *CachedRegistry) Unwrap() Registry { return r.Registry }

func (r *CachedRegistry) FetchMetadata(ctx context.Context, name, version string) (*PackageMetadata, error) {
	var meta PackageMetadata
	key := r.keys.MetadataKey(r.Name(), name, version)
	if r.load(ctx, "metadata", key, &meta) {
		meta.Origin = r.Name()
		return &meta, nil
	}
	m, err := r.Registry.FetchMetadata(ctx, name, version)
	if err != nil {
		return nil, err
	}
	r.store(ctx, "metadata", key, m)
	return m, nil
}

func (r *CachedRegistry) ListVersions(ctx context.Context, name string) ([]string, error) {
	var versions []string
	key := r.keys.VersionsKey(r.Name(), name)
	if r.load(ctx, "versions", key, &versions) {
		return versions, nil
	}
	versions, err := r.Registry.ListVersions(ctx, name)
	if err != nil {
		return nil, err
	}
	r.store(ctx, "versions", key, versions)
	return versions, nil
}

func (r *CachedRegistry) Search(ctx context.Context, query string) ([]SearchResult, error) {
	var results []SearchResult
	key := r.keys.SearchKey(r.Name(), query)
	if r.load(ctx, "search", key, &results) {
		return results, nil
	}
	results, err := r.Registry.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	r.store(ctx, "search", key, results)
	return results, nil
}

// Publish uploads through the wrapped registry and drops the entries the new
// version makes stale.
func (r *CachedRegistry) Publish(ctx context.Context, meta *PackageMetadata, tarballPath string) error {
	if err := r.Registry.Publish(ctx, meta, tarballPath); err != nil {
		return err
	}
	_ = r.cache.Delete(ctx, r.keys.VersionsKey(r.Name(), meta.Name))
	_ = r.cache.Delete(ctx, r.keys.MetadataKey(r.Name(), meta.Name, ""))
	return nil
}

// load reports a hit only when the entry decodes; cache errors count as
// misses.
func (r *CachedRegistry) load(ctx context.Context, kind, key string, v any) bool {
	data, ok, err := r.cache.Get(ctx, key)
	if err != nil || !ok || json.Unmarshal(data, v) != nil {
		observability.Cache().OnCacheMiss(ctx, kind)
		return false
	}
	observability.Cache().OnCacheHit(ctx, kind)
	return true
}

func (r *CachedRegistry) store(ctx context.Context, kind, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if r.cache.Set(ctx, key, data, r.ttl) == nil {
		observability.Cache().OnCacheSet(ctx, kind, len(data))
	}
}
