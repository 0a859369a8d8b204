// Package override applies global version pins declared in a manifest's
// "overrides" and "resolutions" fields.
package override

import (
	"maps"
	"slices"

	"github.com/home-lang/pantry-sub014/pkg/semver"
)

// Map pins package names to version values. It is owned by a single
// resolution.
type Map struct {
	pins map[string]string
}

// New returns an empty Map.
func New() *Map {
	return &Map{pins: make(map[string]string)}
}

// Set pins name to version, replacing any earlier pin.
func (m *Map) Set(name, version string) {
	m.pins[name] = version
}

// Get returns the pin for name.
func (m *Map) Get(name string) (string, bool) {
	v, ok := m.pins[name]
	return v, ok
}

// Len returns the number of pins.
func (m *Map) Len() int { return len(m.pins) }

// Names returns the pinned package names, sorted.
func (m *Map) Names() []string {
	return slices.Sorted(maps.Keys(m.pins))
}

// Apply returns the pinned version for name, or original when there is none.
func (m *Map) Apply(name, original string) string {
	if m == nil {
		return original
	}
	if v, ok := m.pins[name]; ok {
		return v
	}
	return original
}

// Parse reads the "overrides" object and then the "resolutions" object of a
// decoded manifest into one Map. A name present in both ends up with the
// "resolutions" value. Only string leaves are accepted: nested per-path
// objects and other non-strings are skipped silently, and strings failing
// [semver.IsValidSpec] are skipped with a warning.
func Parse(raw map[string]any, warn func(string, ...any)) *Map {
	if warn == nil {
		warn = func(string, ...any) {}
	}
	m := New()
	for _, field := range []string{"overrides", "resolutions"} {
		obj, ok := raw[field].(map[string]any)
		if !ok {
			continue
		}
		for _, name := range slices.Sorted(maps.Keys(obj)) {
			v, ok := obj[name].(string)
			if !ok {
				continue
			}
			if !semver.IsValidSpec(v) {
				warn("skipping %s entry %s=%q: invalid version", field, name, v)
				continue
			}
			m.Set(name, v)
		}
	}
	return m
}
