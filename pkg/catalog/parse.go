package catalog

import (
	"maps"
	"slices"

	"github.com/home-lang/pantry-sub014/pkg/semver"
)

// Parse builds a Manager from a decoded manifest object.
//
// Sources are read in a fixed order: workspaces.catalog (default),
// workspaces.catalogs (named), the top-level catalog (only when no default was
// found yet) and the top-level catalogs (always merged). Non-string values are
// skipped silently; strings that fail [semver.IsValidSpec] are skipped and
// reported through warn, which may be nil.
func Parse(raw map[string]any, warn func(string, ...any)) *Manager {
	if warn == nil {
		warn = func(string, ...any) {}
	}
	m := NewManager()

	if ws, ok := raw["workspaces"].(map[string]any); ok {
		if obj, ok := ws["catalog"].(map[string]any); ok {
			if c := parseCatalog("", obj, warn); c.Len() > 0 {
				m.SetDefault(c)
			}
		}
		if obj, ok := ws["catalogs"].(map[string]any); ok {
			parseNamed(m, obj, warn)
		}
	}

	if !m.HasDefault() {
		if obj, ok := raw["catalog"].(map[string]any); ok {
			if c := parseCatalog("", obj, warn); c.Len() > 0 {
				m.SetDefault(c)
			}
		}
	}

	if obj, ok := raw["catalogs"].(map[string]any); ok {
		parseNamed(m, obj, warn)
	}
	return m
}

func parseNamed(m *Manager, obj map[string]any, warn func(string, ...any)) {
	for _, name := range slices.Sorted(maps.Keys(obj)) {
		entries, ok := obj[name].(map[string]any)
		if !ok {
			continue
		}
		if !m.Add(parseCatalog(name, entries, warn)) {
			warn("catalog %q has no valid entries, ignoring", name)
		}
	}
}

func parseCatalog(name string, obj map[string]any, warn func(string, ...any)) *Catalog {
	c := &Catalog{Name: name, Versions: make(map[string]string, len(obj))}
	for _, pkg := range slices.Sorted(maps.Keys(obj)) {
		v, ok := obj[pkg].(string)
		if !ok {
			continue
		}
		if !semver.IsValidSpec(v) {
			warn("skipping catalog entry %s=%q: invalid version", pkg, v)
			continue
		}
		c.Versions[pkg] = v
	}
	return c
}
