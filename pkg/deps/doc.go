// Package deps turns a project manifest into an install plan.
//
// # Overview
//
// A [Manifest] is the parsed form of package.json or deps.yaml: the declared
// dependencies in file order plus the raw document, from which catalogs,
// overrides and resolutions are read. Parsers implement [ManifestParser] and
// live in subpackages:
//
//   - [javascript]: package.json
//   - [pkgx]: deps.yaml and pkgx.yaml
//
// [DetectManifest], [FindManifest] and [LoadManifest] pick a parser by file
// name.
//
// # Resolving Dependencies
//
// [Resolver] walks requirements breadth first over a [registry.Manager]:
//
//	r := deps.NewResolver(registries, deps.Options{Lock: lock})
//	res, err := r.Resolve(ctx, manifest)
//	for _, name := range res.Order {
//	    // install name
//	}
//
// For each requirement the resolver:
//
//  1. Rewrites a catalog: reference to the catalog's range
//  2. Applies overrides and resolutions
//  3. Validates the value, skipping it with a warning if it is malformed
//  4. Picks candidate registries from the package name (pass-through, npm,
//     GitHub), preferring the origin recorded in the lock
//  5. Chooses a version: a locked one if it satisfies the range, otherwise
//     the conflict resolver's pick from the registry's version list
//  6. Fetches metadata and queues dependencies, optional dependencies and
//     peer declarations
//
// Each name is resolved once. A later, incompatible range for a chosen
// package is recorded as a conflict rather than resolved again. Specs that
// point outside the registries (workspace:, git+, file:, plain URLs) become
// link packages with no metadata.
//
// The plan is ordered with [dag.TopologicalSort]; a cycle aborts the run.
// Peers are validated last. Failures that cannot be recovered come back as a
// [*ResolveError] naming the package, range and registries tried.
//
// # Options
//
// [Options] controls resolution behavior:
//
//   - Strategy: highest (default) or lowest satisfying version
//   - StrictPeers: fail on missing or incompatible peers
//   - IncludeDev: also resolve devDependencies
//   - Lock: lock record to prefer
//   - Platform: target for os/cpu filtering of optional packages
//   - MaxNodes: maximum packages (default 5000)
//   - Logger: warning callback
//
// [javascript]: github.com/home-lang/pantry-sub014/pkg/deps/javascript
// [pkgx]: github.com/home-lang/pantry-sub014/pkg/deps/pkgx
// [registry.Manager]: github.com/home-lang/pantry-sub014/pkg/registry.Manager
// [dag.TopologicalSort]: github.com/home-lang/pantry-sub014/pkg/dag.TopologicalSort
package deps
