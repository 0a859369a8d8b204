// Package catalog resolves "catalog:" version references against the shared
// version tables a workspace manifest declares.
//
// A dependency value of exactly "catalog:" or "catalog:<name>" points into a
// catalog instead of naming a range. The empty name (after trimming) selects the
// default catalog.
//
//	m := catalog.Parse(rawManifest, logger)
//	version, outcome := m.Resolve("react", "catalog:")
//	switch outcome {
//	case catalog.Resolved:      // use version
//	case catalog.NotReference:  // the value was a plain range
//	case catalog.NotFound:      // the catalog has no entry for react
//	}
package catalog

import (
	"strings"
)

// Prefix marks a catalog reference.
const Prefix = "catalog:"

// Outcome describes the result of [Manager.Resolve].
type Outcome int

const (
	// NotReference means the value was not a catalog reference.
	NotReference Outcome = iota
	// Resolved means the catalog supplied a version.
	Resolved
	// NotFound means the value was a reference but the catalog, or the package
	// inside it, does not exist.
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case NotFound:
		return "not found"
	}
	return "not a reference"
}

// Catalog is one named (or default, when Name is empty) version table.
type Catalog struct {
	Name     string
	Versions map[string]string
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.Versions) }

// Lookup returns the version recorded for pkg.
func (c *Catalog) Lookup(pkg string) (string, bool) {
	v, ok := c.Versions[pkg]
	return v, ok
}

// IsReference reports whether value is a catalog reference.
func IsReference(value string) bool {
	return strings.HasPrefix(value, Prefix)
}

// ReferenceName extracts the catalog name from a reference. The remainder after
// the prefix is trimmed; an empty result denotes the default catalog. The
// second result is false when value is not a reference.
func ReferenceName(value string) (string, bool) {
	if !IsReference(value) {
		return "", false
	}
	return strings.TrimSpace(value[len(Prefix):]), true
}

// Manager holds at most one default catalog and any number of named ones.
// A Manager is owned by a single resolution and is not safe for concurrent
// mutation.
type Manager struct {
	def   *Catalog
	named map[string]*Catalog
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{named: make(map[string]*Catalog)}
}

// SetDefault installs c as the default catalog.
func (m *Manager) SetDefault(c *Catalog) {
	c.Name = ""
	m.def = c
}

// Add registers a named catalog. Catalogs with no entries are discarded and
// Add reports false.
func (m *Manager) Add(c *Catalog) bool {
	if c.Len() == 0 {
		return false
	}
	if c.Name == "" {
		m.SetDefault(c)
		return true
	}
	m.named[c.Name] = c
	return true
}

// Default returns the default catalog, or nil.
func (m *Manager) Default() *Catalog { return m.def }

// HasDefault reports whether a default catalog is registered.
func (m *Manager) HasDefault() bool { return m.def != nil }

// Get returns the catalog with the given name. The empty name returns the
// default catalog.
func (m *Manager) Get(name string) (*Catalog, bool) {
	if name == "" {
		return m.def, m.def != nil
	}
	c, ok := m.named[name]
	return c, ok
}

// Names returns the named catalogs in no particular order.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.named))
	for n := range m.named {
		names = append(names, n)
	}
	return names
}

// Resolve rewrites a dependency value. Values that are not references come back
// unchanged with [NotReference]. A reference to a missing catalog or a missing
// entry yields [NotFound], which is an outcome and not an error.
func (m *Manager) Resolve(pkg, value string) (string, Outcome) {
	name, ok := ReferenceName(value)
	if !ok {
		return value, NotReference
	}
	c, ok := m.Get(name)
	if !ok {
		return "", NotFound
	}
	v, ok := c.Lookup(pkg)
	if !ok {
		return "", NotFound
	}
	return v, Resolved
}
