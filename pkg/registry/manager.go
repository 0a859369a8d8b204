package registry

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"strings"

	perrors "github.com/home-lang/pantry-sub014/pkg/errors"
)

type entry struct {
	cfg Config
	reg Registry
}

// Manager keeps registries sorted by priority, lowest first. Registries with
// equal priority keep the order they were added in.
//
// A Manager is not safe for concurrent modification; build it fully before
// sharing it.
type Manager struct {
	entries []entry
	pinned  string
}

// NewManager creates an empty manager.
func NewManager() *Manager { return &Manager{} }

// Add registers r under cfg. cfg.Name must be unique.
func (m *Manager) Add(cfg Config, r Registry) error {
	if cfg.Name == "" {
		cfg.Name = r.Name()
	}
	if slices.ContainsFunc(m.entries, func(e entry) bool { return e.cfg.Name == cfg.Name }) {
		return perrors.New(perrors.ErrCodeInvalidConfig, "registry %q registered twice", cfg.Name)
	}
	m.entries = append(m.entries, entry{cfg: cfg, reg: r})
	slices.SortStableFunc(m.entries, func(a, b entry) int {
		return cmp.Compare(a.cfg.Priority, b.cfg.Priority)
	})
	return nil
}

// Get returns the registry with the given name, enabled or not.
func (m *Manager) Get(name string) (Registry, bool) {
	for _, e := range m.entries {
		if e.cfg.Name == name {
			return e.reg, true
		}
	}
	return nil, false
}

// Config returns the configuration a registry was added with.
func (m *Manager) Config(name string) (Config, bool) {
	for _, e := range m.entries {
		if e.cfg.Name == name {
			return e.cfg, true
		}
	}
	return Config{}, false
}

// ByType returns the enabled registries of type t in priority order.
func (m *Manager) ByType(t Type) []Registry {
	var out []Registry
	for _, e := range m.entries {
		if e.cfg.IsEnabled() && e.reg.Type() == t {
			out = append(out, e.reg)
		}
	}
	return out
}

// All returns every enabled registry in priority order.
func (m *Manager) All() []Registry {
	var out []Registry
	for _, e := range m.entries {
		if e.cfg.IsEnabled() {
			out = append(out, e.reg)
		}
	}
	return out
}

// Configs returns every configuration, enabled or not, in priority order.
func (m *Manager) Configs() []Config {
	out := make([]Config, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.cfg
	}
	return out
}

// SetDefault pins the default registry. An empty name removes the pin.
func (m *Manager) SetDefault(name string) error {
	if name != "" {
		if _, ok := m.Get(name); !ok {
			return perrors.New(perrors.ErrCodeRegistryNotFound, "registry %q is not configured", name)
		}
	}
	m.pinned = name
	return nil
}

// Default returns the pinned registry, else the first enabled one.
func (m *Manager) Default() (Registry, bool) {
	if m.pinned != "" {
		return m.Get(m.pinned)
	}
	for _, e := range m.entries {
		if e.cfg.IsEnabled() {
			return e.reg, true
		}
	}
	return nil, false
}

// Candidates returns the registries to try, in order, for a dependency from
// src. Local paths, plain URLs and git remotes have none.
func (m *Manager) Candidates(src Source) []Registry {
	npmLike := func() []Registry {
		var out []Registry
		for _, e := range m.entries {
			switch e.reg.Type() {
			case TypePantry, TypeNpm, TypeCustom:
				if e.cfg.IsEnabled() && !servedByFallback(e.reg, out) {
					out = append(out, e.reg)
				}
			}
		}
		return out
	}

	switch src.Kind {
	case SourceNpm:
		return npmLike()
	case SourceGitHub:
		return m.ByType(TypeGitHub)
	case SourcePassthrough, SourceAuto:
		out := m.ByType(TypePassthrough)
		out = append(out, npmLike()...)
		return append(out, m.ByType(TypeGitHub)...)
	}
	return nil
}

// FetchMetadata tries each candidate for name in turn and returns the first
// hit. Only not-found and transport failures move on to the next candidate;
// anything else is returned at once.
func (m *Manager) FetchMetadata(ctx context.Context, name, version string) (*PackageMetadata, error) {
	src := DetectSource(name)
	candidates := m.Candidates(src)
	if len(candidates) == 0 {
		return nil, perrors.New(perrors.ErrCodeRegistryNotFound, "no registry serves %s dependencies (%s)", src.Kind, name)
	}

	var errs []error
	for _, r := range candidates {
		meta, err := r.FetchMetadata(ctx, src.Name, version)
		if err == nil {
			if meta.Origin == "" {
				meta.Origin = r.Name()
			}
			return meta, nil
		}
		if !Recoverable(err) {
			return nil, err
		}
		errs = append(errs, err)
	}
	return nil, perrors.Wrap(perrors.ErrCodePackageNotFound, errors.Join(errs...),
		"%s not found in %s", spec(name, version), names(candidates))
}

// servedByFallback reports whether one of earlier already falls back to the
// backend r points at.
func servedByFallback(r Registry, earlier []Registry) bool {
	for _, e := range earlier {
		f, ok := unwrap(e).(interface{ Fallback() Registry })
		if !ok || f.Fallback() == nil {
			continue
		}
		if sameBackend(unwrap(f.Fallback()), unwrap(r)) {
			return true
		}
	}
	return false
}

// sameBackend reports whether a and b are the same kind of registry at the
// same base URL.
func sameBackend(a, b Registry) bool {
	if a.Type() != b.Type() {
		return false
	}
	la, ok := a.(interface{ BaseURL() string })
	lb, ok2 := b.(interface{ BaseURL() string })
	if !ok || !ok2 || la.BaseURL() == "" {
		return false
	}
	return strings.TrimSuffix(la.BaseURL(), "/") == strings.TrimSuffix(lb.BaseURL(), "/")
}

// unwrap strips decorators such as [CachedRegistry].
func unwrap(r Registry) Registry {
	for {
		u, ok := r.(interface{ Unwrap() Registry })
		if !ok {
			return r
		}
		r = u.Unwrap()
	}
}

func names(rs []Registry) string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name()
	}
	return "[" + strings.Join(out, ", ") + "]"
}
