// Package github serves GitHub repositories as packages. Tags that parse as
// versions are the published versions, the tarball endpoint provides the
// archive and a package.json at the tag, when present, provides dependencies.
package github

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/home-lang/pantry-sub014/pkg/integrations"
	gh "github.com/home-lang/pantry-sub014/pkg/integrations/github"
	"github.com/home-lang/pantry-sub014/pkg/registry"
	"github.com/home-lang/pantry-sub014/pkg/semver"
)

const searchLimit = 20

// Registry is the GitHub backend.
type Registry struct {
	name   string
	client *gh.Client
}

// New creates a backend over client.
func New(name string, client *gh.Client) *Registry {
	if name == "" {
		name = "github"
	}
	return &Registry{name: name, client: client}
}

func (r *Registry) Name() string        { return r.name }
func (r *Registry) Type() registry.Type { return registry.TypeGitHub }

// FetchMetadata describes owner/repo at version. With no version the ref in
// the name ("owner/repo#v1.2.0") is used, else the highest version tag.
func (r *Registry) FetchMetadata(ctx context.Context, name, version string) (*registry.PackageMetadata, error) {
	ref, err := gh.ParseRef(name)
	if err != nil {
		return nil, registry.NotFound(r.name, name, version, err)
	}
	tag, err := r.resolveTag(ctx, ref, version)
	if err != nil {
		return nil, registry.NotFound(r.name, name, version, err)
	}
	repo, err := r.client.Repo(ctx, ref.Owner, ref.Repo)
	if err != nil {
		return nil, registry.NotFound(r.name, name, version, err)
	}

	meta := &registry.PackageMetadata{
		Name:        ref.Owner + "/" + ref.Repo,
		Version:     strings.TrimPrefix(tag, "v"),
		Description: repo.Description,
		Repository:  repo.HTMLURL,
		Homepage:    repo.Homepage,
		License:     repo.LicenseID(),
		Tarball:     r.client.TarballURL(ref.Owner, ref.Repo, tag),
		Origin:      r.name,
	}
	manifest, err := r.client.Manifest(ctx, ref.Owner, ref.Repo, tag)
	switch {
	case err == nil:
		meta.Dependencies = manifest.Dependencies
		meta.DevDependencies = manifest.DevDependencies
		meta.PeerDependencies = manifest.PeerDependencies
		meta.OptionalDependencies = manifest.OptionalDependencies
		if meta.Description == "" {
			meta.Description = manifest.Description
		}
	case !errors.Is(err, integrations.ErrNotFound):
		return nil, registry.NotFound(r.name, name, version, err)
	}
	return meta, nil
}

// resolveTag maps a requested version onto a tag name.
func (r *Registry) resolveTag(ctx context.Context, ref gh.Ref, version string) (string, error) {
	if version == "" || version == "latest" {
		if ref.Ref != "" {
			return ref.Ref, nil
		}
	}
	tags, err := r.client.Tags(ctx, ref.Owner, ref.Repo)
	if err != nil {
		return "", err
	}
	if version == "" || version == "latest" {
		best := ""
		for _, t := range tags {
			if _, err := semver.ParseVersion(t.Name); err == nil && (best == "" || semver.CompareStrings(t.Name, best) > 0) {
				best = t.Name
			}
		}
		if best == "" {
			return "", integrations.ErrNotFound
		}
		return best, nil
	}
	want := strings.TrimPrefix(version, "v")
	for _, t := range tags {
		if strings.TrimPrefix(t.Name, "v") == want {
			return t.Name, nil
		}
	}
	return "", integrations.ErrNotFound
}

// ListVersions returns tags that parse as versions, without a "v" prefix.
func (r *Registry) ListVersions(ctx context.Context, name string) ([]string, error) {
	ref, err := gh.ParseRef(name)
	if err != nil {
		return nil, registry.NotFound(r.name, name, "", err)
	}
	tags, err := r.client.Tags(ctx, ref.Owner, ref.Repo)
	if err != nil {
		return nil, registry.NotFound(r.name, name, "", err)
	}
	var versions []string
	for _, t := range tags {
		if _, err := semver.ParseVersion(t.Name); err == nil {
			versions = append(versions, strings.TrimPrefix(t.Name, "v"))
		}
	}
	return versions, nil
}

func (r *Registry) Search(ctx context.Context, query string) ([]registry.SearchResult, error) {
	repos, err := r.client.SearchRepos(ctx, query, searchLimit)
	if err != nil {
		return nil, err
	}
	out := make([]registry.SearchResult, len(repos))
	for i, repo := range repos {
		out[i] = registry.SearchResult{Name: repo.FullName, Description: repo.Description}
	}
	return out, nil
}

func (r *Registry) DownloadTarball(ctx context.Context, name, version, dest string) error {
	ref, err := gh.ParseRef(name)
	if err != nil {
		return registry.DownloadFailed(r.name, name, version, err)
	}
	tag, err := r.resolveTag(ctx, ref, version)
	if err != nil {
		return registry.DownloadFailed(r.name, name, version, err)
	}
	err = registry.WriteTarball(dest, "", func(w io.Writer) (int64, error) {
		return r.client.DownloadTarball(ctx, ref.Owner, ref.Repo, tag, w)
	})
	if err != nil {
		return registry.DownloadFailed(r.name, name, version, err)
	}
	return nil
}

// Publish is unsupported: releases are made by pushing tags.
func (r *Registry) Publish(context.Context, *registry.PackageMetadata, string) error {
	return registry.Unsupported(r.name, "publish")
}
