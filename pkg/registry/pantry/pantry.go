// Package pantry implements the first-party registry: the REST protocol of
// package rest, backed by an npm-compatible fallback.
//
// Metadata lookups, version lists and downloads that fail with not-found or a
// transport error are retried once against the fallback. Results from either
// side carry this registry's name as their origin, so callers cannot tell a
// fallback hit from a native one.
package pantry

import (
	"context"
	"errors"

	"github.com/home-lang/pantry-sub014/pkg/observability"
	"github.com/home-lang/pantry-sub014/pkg/registry"
	"github.com/home-lang/pantry-sub014/pkg/registry/rest"
)

// Registry is a first-party registry with a fallback.
type Registry struct {
	*rest.Registry
	fallback registry.Registry
}

// New wraps primary. A nil fallback disables falling back.
func New(primary *rest.Registry, fallback registry.Registry) *Registry {
	return &Registry{Registry: primary, fallback: fallback}
}

// Fallback returns the registry consulted after a primary miss.
func (r *Registry) Fallback() registry.Registry { return r.fallback }

func (r *Registry) FetchMetadata(ctx context.Context, name, version string) (*registry.PackageMetadata, error) {
	meta, err := r.Registry.FetchMetadata(ctx, name, version)
	if !r.shouldFallback(err) {
		return meta, err
	}
	observability.Resolve().OnFallback(ctx, r.Name(), r.fallback.Name(), name)
	meta, ferr := r.fallback.FetchMetadata(ctx, name, version)
	if ferr != nil {
		return nil, registry.NotFound(r.Name(), name, version, errors.Join(err, ferr))
	}
	meta.Origin = r.Name()
	return meta, nil
}

func (r *Registry) ListVersions(ctx context.Context, name string) ([]string, error) {
	versions, err := r.Registry.ListVersions(ctx, name)
	if !r.shouldFallback(err) {
		return versions, err
	}
	observability.Resolve().OnFallback(ctx, r.Name(), r.fallback.Name(), name)
	versions, ferr := r.fallback.ListVersions(ctx, name)
	if ferr != nil {
		return nil, registry.NotFound(r.Name(), name, "", errors.Join(err, ferr))
	}
	return versions, nil
}

func (r *Registry) DownloadTarball(ctx context.Context, name, version, dest string) error {
	err := r.Registry.DownloadTarball(ctx, name, version, dest)
	if !r.shouldFallback(err) {
		return err
	}
	observability.Resolve().OnFallback(ctx, r.Name(), r.fallback.Name(), name)
	if ferr := r.fallback.DownloadTarball(ctx, name, version, dest); ferr != nil {
		return registry.DownloadFailed(r.Name(), name, version, errors.Join(err, ferr))
	}
	return nil
}

func (r *Registry) shouldFallback(err error) bool {
	return err != nil && r.fallback != nil && registry.Recoverable(err)
}
