// Package registry defines the uniform contract over package origins.
//
// # Registry
//
// Every origin implements [Registry]: FetchMetadata, DownloadTarball, Search,
// ListVersions and Publish. Backends live in subpackages:
//
//   - registry/npm: npm-compatible registries (dist-tags, packuments)
//   - registry/rest: the first-party REST shape
//   - registry/pantry: first-party REST that falls back to npm
//   - registry/custom: any REST registry, publishing multipart uploads
//   - registry/passthrough: a local store, never touches the network
//   - registry/github: repositories as packages, tags as versions
//
// [registry/builtin] constructs any of them from a [Config].
//
// Whatever the origin, results are normalized into [PackageMetadata] at the
// backend boundary. Callers never see a packument or a GitHub tag list.
//
// # Errors
//
// Backends report failures as [github.com/home-lang/pantry-sub014/pkg/errors]
// values: PACKAGE_NOT_FOUND for metadata, DOWNLOAD_FAILED and PUBLISH_FAILED
// for transfers, with UNAUTHORIZED, FORBIDDEN or ALREADY_EXISTS nested inside
// when the status says so. Transient failures keep their
// [*httputil.RetryableError] in the chain. Nothing in this package retries.
//
// # Selecting a registry
//
// [DetectSource] classifies a dependency name and [Manager.Candidates] turns
// that classification into an ordered list of registries to try. Unqualified
// names are tried against pass-through stores, then npm-compatible
// registries, then GitHub.
//
// [registry/builtin]: github.com/home-lang/pantry-sub014/pkg/registry/builtin
// [*httputil.RetryableError]: github.com/home-lang/pantry-sub014/pkg/httputil.RetryableError
package registry
