// Package pkg provides the core libraries for pantry dependency resolution.
//
// # Overview
//
// Pantry reads a project manifest (package.json or deps.yaml), resolves every
// dependency against a prioritized set of package registries and produces a
// flat, dependency-ordered install plan that is persisted as pantry.lock.
//
// The typical data flow:
//
//	package.json / deps.yaml
//	         ↓
//	    [deps] package (manifest parsing + resolver session)
//	         ↓
//	    [registry] package (npm, pantry, GitHub, passthrough, REST backends)
//	         ↓
//	    [resolution] package (conflicts, peers, optionals, report)
//	         ↓
//	    [dag] package (topological ordering, cycle detection)
//	         ↓
//	    [lockfile] package (pantry.lock)
//
// # Quick Start
//
//	mgr, _ := builtin.NewManager(builtin.DefaultConfigs(storeDir), "", builtin.Options{})
//	m, _ := deps.LoadManifest("package.json", javascript.PackageJSON{}, pkgx.DepsYAML{})
//	res, err := deps.NewResolver(mgr, deps.Options{}).Resolve(ctx, m)
//	if err != nil {
//	    return err
//	}
//	_ = lockfile.Save(res.LockFile(), "pantry.lock")
//
// # Main Packages
//
// [semver] - Version parsing, ordering and npm-style range matching.
//
// [catalog] and [override] - Workspace catalogs ("catalog:" specs) and the
// overrides/resolutions tables that rewrite requested ranges.
//
// [registry] - The Registry interface, the priority-ordered Manager and the
// per-protocol backends. [registry/builtin] builds a Manager from config.
//
// [cache] - File, memory and Redis caches for registry responses.
//
// [config] - pantry.toml loading and validation.
//
// [render/nodelink] - DOT and SVG rendering of a resolved graph.
//
// [observability] - Prometheus metrics and OpenTelemetry spans around
// resolution and registry traffic.
//
// [semver]: https://pkg.go.dev/github.com/home-lang/pantry-sub014/pkg/semver
// [catalog]: https://pkg.go.dev/github.com/home-lang/pantry-sub014/pkg/catalog
// [override]: https://pkg.go.dev/github.com/home-lang/pantry-sub014/pkg/override
// [registry]: https://pkg.go.dev/github.com/home-lang/pantry-sub014/pkg/registry
// [registry/builtin]: https://pkg.go.dev/github.com/home-lang/pantry-sub014/pkg/registry/builtin
// [cache]: https://pkg.go.dev/github.com/home-lang/pantry-sub014/pkg/cache
// [config]: https://pkg.go.dev/github.com/home-lang/pantry-sub014/pkg/config
// [render/nodelink]: https://pkg.go.dev/github.com/home-lang/pantry-sub014/pkg/render/nodelink
// [observability]: https://pkg.go.dev/github.com/home-lang/pantry-sub014/pkg/observability
//
// [deps]: https://pkg.go.dev/github.com/home-lang/pantry-sub014/pkg/deps
// [resolution]: https://pkg.go.dev/github.com/home-lang/pantry-sub014/pkg/resolution
// [dag]: https://pkg.go.dev/github.com/home-lang/pantry-sub014/pkg/dag
// [lockfile]: https://pkg.go.dev/github.com/home-lang/pantry-sub014/pkg/lockfile
package pkg
