package deps

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/home-lang/pantry-sub014/pkg/catalog"
	"github.com/home-lang/pantry-sub014/pkg/dag"
	perrors "github.com/home-lang/pantry-sub014/pkg/errors"
	"github.com/home-lang/pantry-sub014/pkg/observability"
	"github.com/home-lang/pantry-sub014/pkg/override"
	"github.com/home-lang/pantry-sub014/pkg/registry"
	"github.com/home-lang/pantry-sub014/pkg/resolution"
	"github.com/home-lang/pantry-sub014/pkg/semver"
)

// ResolveError reports a requirement that could not be satisfied.
type ResolveError struct {
	Package string
	Range   string
	Origin  string // registries tried, if any
	Err     error
}

func (e *ResolveError) Error() string {
	msg := fmt.Sprintf("resolve %s@%s", e.Package, e.Range)
	if e.Origin != "" {
		msg += " from " + e.Origin
	}
	return msg + ": " + e.Err.Error()
}

func (e *ResolveError) Unwrap() error { return e.Err }

// Resolver turns a manifest into an install plan. It walks requirements
// breadth first, direct dependencies before their dependencies, and fixes
// one version per package name the first time the name is reached.
type Resolver struct {
	registries *registry.Manager
	opts       Options
}

// NewResolver creates a Resolver over the registries in m.
func NewResolver(m *registry.Manager, opts Options) *Resolver {
	return &Resolver{registries: m, opts: opts.WithDefaults()}
}

type job struct {
	dep      Dependency
	parent   string // empty for the manifest itself
	optional bool
	dev      bool
}

type session struct {
	registries *registry.Manager
	opts       Options
	rc         *resolution.Context
	catalogs   *catalog.Manager
	overrides  *override.Map

	queue   []job
	pkgs    map[string]*resolution.Package
	order   []string
	edges   map[string][]string
	skipped map[string]bool
}

// Resolve computes the install plan for m.
//
// Catalog references are rewritten first, then overrides apply, then the
// value is validated; an entry failing any step is skipped with a warning.
// A version found in Options.Lock that satisfies the range is kept without
// listing versions. Failed optional dependencies and optional packages built
// for another platform are recorded in the result instead of failing it.
func (r *Resolver) Resolve(ctx context.Context, m *Manifest) (res *resolution.Result, err error) {
	rc := resolution.NewContext(resolution.Options{
		Strategy:    r.opts.Strategy,
		StrictPeers: r.opts.StrictPeers,
		Lock:        r.opts.Lock,
		Warn:        r.opts.Logger,
	})
	s := &session{
		registries: r.registries,
		opts:       r.opts,
		rc:         rc,
		catalogs:   catalog.Parse(m.Raw, rc.Warn),
		overrides:  override.Parse(m.Raw, rc.Warn),
		pkgs:       make(map[string]*resolution.Package),
		edges:      make(map[string][]string),
		skipped:    make(map[string]bool),
	}

	kinds := []Kind{Prod, Peer, Optional}
	if r.opts.IncludeDev {
		kinds = append(kinds, Dev)
	}
	direct := m.Direct(kinds...)

	hooks := observability.Resolve()
	start := time.Now()
	hooks.OnResolveStart(ctx, rc.ID, len(direct))
	defer func() {
		n := 0
		if res != nil {
			n = len(res.Packages)
		}
		hooks.OnResolveComplete(ctx, rc.ID, n, time.Since(start), err)
	}()

	for _, d := range direct {
		s.push(job{dep: d, optional: d.Kind == Optional, dev: d.Kind == Dev})
	}
	for len(s.queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		j := s.queue[0]
		s.queue = s.queue[1:]
		if err := s.visit(ctx, j); err != nil {
			return nil, err
		}
	}
	return s.finish()
}

func (s *session) push(j job) {
	if j.optional {
		s.rc.Optional.Register(j.dep.Name, j.dep.Range, j.parent)
	}
	s.queue = append(s.queue, j)
}

func (s *session) visit(ctx context.Context, j job) error {
	name, spec := j.dep.Name, j.dep.Range

	if catalog.IsReference(spec) {
		v, outcome := s.catalogs.Resolve(name, spec)
		if outcome == catalog.NotFound {
			s.rc.Warn("%s: no catalog entry for %s (%s), skipped", requester(j.parent), name, spec)
			return nil
		}
		spec = v
	}
	spec = s.overrides.Apply(name, spec)
	if !semver.IsValidSpec(spec) && !isAlias(spec) && !isLink(spec) {
		s.rc.Warn("%s: invalid version %q for %s, skipped", requester(j.parent), spec, name)
		return nil
	}
	if isRange(spec) {
		if _, err := semver.ParseRange(spec); err != nil {
			s.rc.Warn("%s: invalid range %q for %s, skipped: %v", requester(j.parent), spec, name, err)
			return nil
		}
	}

	if j.parent != "" {
		s.edges[j.parent] = append(s.edges[j.parent], name)
	}

	if p, ok := s.pkgs[name]; ok {
		if !j.dev {
			p.Dev = false
		}
		if !j.optional {
			p.Optional = false
		} else {
			s.rc.Optional.RecordSuccess(name, p.Version)
		}
		if !p.Link && isRange(spec) {
			if err := s.rc.Conflicts.Require(name, spec, j.parent); err != nil {
				s.rc.Warn("%v", err)
			}
		}
		return nil
	}
	if j.optional && s.skipped[name] {
		return nil
	}
	if len(s.pkgs) >= s.opts.MaxNodes {
		return &ResolveError{Package: name, Range: spec,
			Err: perrors.New(perrors.ErrCodeInternal, "resolution exceeds %d packages", s.opts.MaxNodes)}
	}

	pkg, meta, err := s.resolve(ctx, j, spec)
	if err != nil {
		if j.optional {
			s.skipped[name] = true
			s.rc.Optional.RecordFailure(name, err)
			s.rc.Warn("optional dependency %s@%s failed: %v", name, spec, err)
			return nil
		}
		return err
	}

	if meta != nil && !s.opts.Platform.Supports(meta.OS, meta.CPU) {
		reason := fmt.Sprintf("%s@%s does not support %s/%s", name, meta.Version, s.opts.Platform.OS, s.opts.Platform.CPU)
		if j.optional {
			s.skipped[name] = true
			s.rc.Optional.RecordSkipped(name, reason)
			return nil
		}
		s.rc.Warn("%s", reason)
	}

	s.pkgs[name] = pkg
	s.order = append(s.order, name)
	if j.optional {
		s.rc.Optional.RecordSuccess(name, pkg.Version)
	}
	observability.Resolve().OnPackageResolved(ctx, pkg.Name, pkg.Version, pkg.Origin)

	if meta != nil {
		s.enqueue(pkg.Name, meta, j)
	}
	return nil
}

// resolve picks a version of one package and fetches its metadata. Link
// specs produce a package without metadata.
func (s *session) resolve(ctx context.Context, j job, spec string) (*resolution.Package, *registry.PackageMetadata, error) {
	name := j.dep.Name
	if isLink(spec) {
		return &resolution.Package{
			Name:     name,
			Version:  spec,
			Resolved: spec,
			Optional: j.optional,
			Dev:      j.dev,
			Link:     true,
		}, nil, nil
	}

	src := registry.DetectSource(name)
	rng := spec
	switch {
	case strings.HasPrefix(spec, "github:"), strings.HasPrefix(spec, "https://github.com/"):
		src = registry.DetectSource(spec)
		rng = ""
	case isAlias(spec):
		target, r := splitAlias(spec)
		src = registry.Source{Kind: registry.SourceNpm, Name: target}
		rng = r
	}

	candidates := s.registries.Candidates(src)
	if len(candidates) == 0 {
		return nil, nil, &ResolveError{Package: name, Range: spec,
			Err: perrors.New(perrors.ErrCodeRegistryNotFound, "no registry serves %s dependencies", src.Kind)}
	}

	var version string
	switch {
	case rng == "":
	case semver.IsTag(rng):
		version = rng
	default:
		if err := s.rc.Conflicts.Require(name, rng, j.parent); err != nil {
			return nil, nil, &ResolveError{Package: name, Range: spec, Err: err}
		}
		if e, ok := s.rc.Locked(name, rng); ok {
			version = e.Version
			candidates = preferOrigin(candidates, e.Origin)
		}
	}

	meta, reg, err := s.fetch(ctx, name, src.Name, rng, version, candidates)
	if err != nil {
		return nil, nil, &ResolveError{Package: name, Range: spec, Origin: registryNames(candidates), Err: err}
	}
	s.rc.Conflicts.Choose(name, meta.Version)

	origin := meta.Origin
	if origin == "" {
		origin = reg.Name()
	}
	var source string
	if src.Name != name {
		source = src.Name
	}
	return &resolution.Package{
		Name:      name,
		Version:   meta.Version,
		Origin:    origin,
		Resolved:  meta.Tarball,
		Integrity: meta.Integrity,
		Optional:  j.optional,
		Dev:       j.dev,
		Source:    source,
	}, meta, nil
}

// fetch tries each candidate in turn. With no fixed version and a range to
// satisfy, the candidate's version list goes through the conflict resolver
// first. Not-found and transport failures move on to the next candidate.
func (s *session) fetch(ctx context.Context, name, lookup, rng, version string, candidates []registry.Registry) (*registry.PackageMetadata, registry.Registry, error) {
	var errs []error
	for _, r := range candidates {
		v := version
		if v == "" && rng != "" {
			versions, err := r.ListVersions(ctx, lookup)
			if err != nil {
				if !registry.Recoverable(err) {
					return nil, nil, err
				}
				errs = append(errs, err)
				continue
			}
			v, err = s.rc.Conflicts.Select(name, versions)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", r.Name(), err))
				continue
			}
		}
		meta, err := r.FetchMetadata(ctx, lookup, v)
		if err == nil {
			return meta, r, nil
		}
		if !registry.Recoverable(err) {
			return nil, nil, err
		}
		errs = append(errs, err)
	}
	return nil, nil, errors.Join(errs...)
}

// enqueue schedules the dependencies of a resolved package and declares its
// peers. Map keys are visited in sorted order so runs are repeatable.
func (s *session) enqueue(parent string, meta *registry.PackageMetadata, from job) {
	for _, name := range slices.Sorted(maps.Keys(meta.Dependencies)) {
		if _, opt := meta.OptionalDependencies[name]; opt {
			continue
		}
		s.push(job{
			dep:      Dependency{Name: name, Range: meta.Dependencies[name], Kind: Prod},
			parent:   parent,
			optional: from.optional,
			dev:      from.dev,
		})
	}
	for _, name := range slices.Sorted(maps.Keys(meta.OptionalDependencies)) {
		s.push(job{
			dep:      Dependency{Name: name, Range: meta.OptionalDependencies[name], Kind: Optional},
			parent:   parent,
			optional: true,
			dev:      from.dev,
		})
	}
	for _, name := range slices.Sorted(maps.Keys(meta.PeerDependencies)) {
		s.rc.Peers.Declare(parent, name, meta.PeerDependencies[name], meta.IsOptionalPeer(name))
	}
}

// finish orders the packages, attaches dependency lists and validates peers.
func (s *session) finish() (*resolution.Result, error) {
	nodes := make([]dag.Dependency, 0, len(s.order))
	for _, name := range s.order {
		p := s.pkgs[name]
		p.Deps = nil
		for _, child := range s.edges[name] {
			if _, ok := s.pkgs[child]; ok && child != name && !slices.Contains(p.Deps, child) {
				p.Deps = append(p.Deps, child)
			}
		}
		nodes = append(nodes, dag.Dependency{Name: name, Version: p.Version, Deps: p.Deps})
	}

	order, err := dag.TopologicalSort(nodes)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeCircularDependency, err, "order %d packages", len(nodes))
	}

	packages := make([]resolution.Package, len(order))
	installed := make(map[string]string, len(order))
	for i, name := range order {
		p := s.pkgs[name]
		packages[i] = *p
		if !p.Link {
			installed[name] = p.Version
		}
	}

	peers, err := s.rc.Peers.Validate(installed)
	if err != nil {
		return nil, err
	}
	for _, w := range peers.Warnings() {
		s.rc.Warn("%s", w)
	}
	return s.rc.Result(packages, peers), nil
}

// Graph converts a result into a DAG with one node per package.
func Graph(res *resolution.Result) *dag.DAG {
	g := dag.New(dag.Metadata{"session": res.ID})
	for _, p := range res.Packages {
		meta := dag.Metadata{"origin": p.Origin}
		if p.Link {
			meta["link"] = true
		}
		if p.Optional {
			meta["optional"] = true
		}
		if p.Dev {
			meta["dev"] = true
		}
		_ = g.AddNode(dag.Node{ID: p.Name, Version: p.Version, Meta: meta})
	}
	for _, p := range res.Packages {
		for _, d := range p.Deps {
			_ = g.AddEdge(dag.Edge{From: p.Name, To: d})
		}
	}
	return g
}

var linkPrefixes = []string{"workspace:", "git+", "git://", "file:", "link:", "http://"}

// isLink reports whether spec installs from somewhere other than a registry.
// github.com URLs and github: specs go through the GitHub backend instead.
func isLink(spec string) bool {
	for _, p := range linkPrefixes {
		if strings.HasPrefix(spec, p) {
			return true
		}
	}
	return strings.HasPrefix(spec, "https://") && !strings.HasPrefix(spec, "https://github.com/")
}

func isAlias(spec string) bool { return strings.HasPrefix(spec, "npm:") }

// splitAlias splits "npm:target@range" into the real package name and range.
func splitAlias(spec string) (string, string) {
	s := strings.TrimPrefix(spec, "npm:")
	if i := strings.LastIndex(s, "@"); i > 0 {
		return s[:i], s[i+1:]
	}
	return s, "*"
}

// isRange reports whether spec constrains a registry version.
func isRange(spec string) bool {
	return !semver.IsTag(spec) && !isAlias(spec) && !isLink(spec) &&
		!strings.HasPrefix(spec, "github:") && !strings.HasPrefix(spec, "https://github.com/")
}

// preferOrigin moves the registry called origin to the front.
func preferOrigin(rs []registry.Registry, origin string) []registry.Registry {
	i := slices.IndexFunc(rs, func(r registry.Registry) bool { return r.Name() == origin })
	if i <= 0 {
		return rs
	}
	out := make([]registry.Registry, 0, len(rs))
	out = append(out, rs[i])
	out = append(out, rs[:i]...)
	return append(out, rs[i+1:]...)
}

func registryNames(rs []registry.Registry) string {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = r.Name()
	}
	return strings.Join(names, ", ")
}

func requester(parent string) string {
	if parent == "" {
		return "manifest"
	}
	return parent
}
