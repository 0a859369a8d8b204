// Package npm adapts npm-compatible registries to [registry.Registry].
package npm

import (
	"context"
	"io"
	"maps"
	"slices"
	"strings"

	npmapi "github.com/home-lang/pantry-sub014/pkg/integrations/npm"
	"github.com/home-lang/pantry-sub014/pkg/registry"
)

const searchSize = 20

// Registry serves packages from an npm-compatible registry.
type Registry struct {
	name   string
	client *npmapi.Client
}

// New creates a backend named name over client.
func New(name string, client *npmapi.Client) *Registry {
	if name == "" {
		name = "npm"
	}
	return &Registry{name: name, client: client}
}

func (r *Registry) Name() string        { return r.name }
func (r *Registry) Type() registry.Type { return registry.TypeNpm }

// BaseURL returns the registry root the client talks to.
func (r *Registry) BaseURL() string { return r.client.BaseURL() }

// FetchMetadata resolves version through dist-tags when it is empty or names
// a tag, then reads it from the packument's versions map.
func (r *Registry) FetchMetadata(ctx context.Context, name, version string) (*registry.PackageMetadata, error) {
	doc, err := r.client.Packument(ctx, name)
	if err != nil {
		return nil, registry.NotFound(r.name, name, version, err)
	}
	exact := version
	if version == "" {
		exact = doc.DistTags["latest"]
	} else if tagged, ok := doc.DistTags[version]; ok {
		exact = tagged
	}
	v, ok := doc.Versions[exact]
	if !ok {
		v, ok = doc.Versions[strings.TrimPrefix(exact, "v")]
	}
	if !ok {
		return nil, registry.NotFound(r.name, name, version, nil)
	}
	meta := FromVersionDoc(&v)
	meta.Origin = r.name
	return meta, nil
}

// ListVersions returns the keys of the packument's versions map, sorted
// lexically.
func (r *Registry) ListVersions(ctx context.Context, name string) ([]string, error) {
	doc, err := r.client.Packument(ctx, name)
	if err != nil {
		return nil, registry.NotFound(r.name, name, "", err)
	}
	return slices.Sorted(maps.Keys(doc.Versions)), nil
}

func (r *Registry) Search(ctx context.Context, query string) ([]registry.SearchResult, error) {
	hits, err := r.client.Search(ctx, query, searchSize)
	if err != nil {
		return nil, err
	}
	out := make([]registry.SearchResult, len(hits))
	for i, h := range hits {
		out[i] = registry.SearchResult{Name: h.Name, Version: h.Version, Description: h.Description}
	}
	return out, nil
}

// DownloadTarball fetches the version's dist.tarball and checks it against
// dist.integrity, or dist.shasum when no integrity is published.
func (r *Registry) DownloadTarball(ctx context.Context, name, version, dest string) error {
	meta, err := r.FetchMetadata(ctx, name, version)
	if err != nil {
		return registry.DownloadFailed(r.name, name, version, err)
	}
	err = registry.WriteTarball(dest, meta.Integrity, func(w io.Writer) (int64, error) {
		return r.client.Download(ctx, meta.Tarball, w)
	})
	if err != nil {
		return registry.DownloadFailed(r.name, name, version, err)
	}
	return nil
}

func (r *Registry) Publish(ctx context.Context, meta *registry.PackageMetadata, tarballPath string) error {
	data, err := registry.ReadTarball(tarballPath)
	if err != nil {
		return registry.PublishFailed(r.name, meta.Name, meta.Version, err)
	}
	doc := ToVersionDoc(meta)
	if err := r.client.Publish(ctx, *doc, data); err != nil {
		return registry.PublishFailed(r.name, meta.Name, meta.Version, err)
	}
	return nil
}

// FromVersionDoc normalizes an npm version document.
func FromVersionDoc(v *npmapi.VersionDoc) *registry.PackageMetadata {
	integrity := v.Dist.Integrity
	if integrity == "" {
		integrity = v.Dist.Shasum
	}
	m := &registry.PackageMetadata{
		Name:                 v.Name,
		Version:              v.Version,
		Description:          v.Description,
		Repository:           v.RepositoryURL(),
		Homepage:             v.Homepage,
		License:              v.LicenseName(),
		Tarball:              v.Dist.Tarball,
		Integrity:            integrity,
		Dependencies:         v.Dependencies,
		DevDependencies:      v.DevDependencies,
		PeerDependencies:     v.PeerDependencies,
		OptionalDependencies: v.OptionalDependencies,
		OS:                   v.OS,
		CPU:                  v.CPU,
	}
	for _, peer := range slices.Sorted(maps.Keys(v.PeerDependenciesMeta)) {
		if v.PeerDependenciesMeta[peer].Optional {
			m.OptionalPeers = append(m.OptionalPeers, peer)
		}
	}
	return m
}

// ToVersionDoc is the inverse of [FromVersionDoc] for publishing.
func ToVersionDoc(m *registry.PackageMetadata) *npmapi.VersionDoc {
	v := &npmapi.VersionDoc{
		Name:                 m.Name,
		Version:              m.Version,
		Description:          m.Description,
		Homepage:             m.Homepage,
		Dependencies:         m.Dependencies,
		DevDependencies:      m.DevDependencies,
		PeerDependencies:     m.PeerDependencies,
		OptionalDependencies: m.OptionalDependencies,
		OS:                   m.OS,
		CPU:                  m.CPU,
	}
	if m.License != "" {
		v.License = m.License
	}
	if m.Repository != "" {
		v.Repository = map[string]any{"type": "git", "url": m.Repository}
	}
	if len(m.OptionalPeers) > 0 {
		v.PeerDependenciesMeta = make(map[string]npmapi.PeerMeta, len(m.OptionalPeers))
		for _, p := range m.OptionalPeers {
			v.PeerDependenciesMeta[p] = npmapi.PeerMeta{Optional: true}
		}
	}
	return v
}
