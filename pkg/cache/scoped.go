package cache

// ScopedKeyer prefixes every key produced by an inner Keyer. It separates
// entries that share one backend, for example several projects pointing at
// the same Redis instance or credentials that see different private packages.
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "pantry:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) MetadataKey(registry, name, version string) string {
	return k.prefix + k.inner.MetadataKey(registry, name, version)
}

func (k *ScopedKeyer) VersionsKey(registry, name string) string {
	return k.prefix + k.inner.VersionsKey(registry, name)
}

func (k *ScopedKeyer) SearchKey(registry, query string) string {
	return k.prefix + k.inner.SearchKey(registry, query)
}
