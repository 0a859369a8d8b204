// Package passthrough serves packages from a local store without touching the
// network.
//
// The store holds one directory per package, nested for domain-style names:
//
//	{root}/nodejs.org/v20.11.0.tar.gz
//	{root}/nodejs.org/v20.11.0.json     optional metadata
//	{root}/github.com/cli/cli/v2.40.0.tar.gz
//
// A version without a metadata file is described from its file name alone.
package passthrough

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	perrors "github.com/home-lang/pantry-sub014/pkg/errors"
	"github.com/home-lang/pantry-sub014/pkg/integrations"
	"github.com/home-lang/pantry-sub014/pkg/registry"
	"github.com/home-lang/pantry-sub014/pkg/semver"
)

const (
	tarballExt  = ".tar.gz"
	metadataExt = ".json"
)

// Registry is a local package store.
type Registry struct {
	name string
	root string
}

// New creates a store rooted at root. The directory is created on first
// publish.
func New(name, root string) *Registry {
	if name == "" {
		name = "passthrough"
	}
	return &Registry{name: name, root: root}
}

func (r *Registry) Name() string        { return r.name }
func (r *Registry) Type() registry.Type { return registry.TypePassthrough }

// Root returns the store directory.
func (r *Registry) Root() string { return r.root }

func (r *Registry) dir(name string) (string, error) {
	if err := perrors.ValidatePackageName(name); err != nil {
		return "", err
	}
	return filepath.Join(r.root, filepath.FromSlash(name)), nil
}

func (r *Registry) paths(name, version string) (tarball, meta string, err error) {
	dir, err := r.dir(name)
	if err != nil {
		return "", "", err
	}
	base := filepath.Join(dir, "v"+strings.TrimPrefix(version, "v"))
	return base + tarballExt, base + metadataExt, nil
}

func (r *Registry) FetchMetadata(ctx context.Context, name, version string) (*registry.PackageMetadata, error) {
	if version == "" || version == "latest" {
		versions, err := r.ListVersions(ctx, name)
		if err != nil {
			return nil, err
		}
		version = latest(versions)
	}
	tarball, metaPath, err := r.paths(name, version)
	if err != nil {
		return nil, registry.NotFound(r.name, name, version, err)
	}
	if _, err := os.Stat(tarball); err != nil {
		return nil, registry.NotFound(r.name, name, version, nil)
	}

	meta := &registry.PackageMetadata{}
	if data, err := os.ReadFile(metaPath); err == nil {
		if err := json.Unmarshal(data, meta); err != nil {
			return nil, registry.NotFound(r.name, name, version, err)
		}
	}
	meta.Name = name
	meta.Version = strings.TrimPrefix(version, "v")
	meta.Tarball = "file://" + filepath.ToSlash(tarball)
	meta.Origin = r.name
	return meta, nil
}

// ListVersions returns the versions with a tarball in the store.
func (r *Registry) ListVersions(_ context.Context, name string) ([]string, error) {
	dir, err := r.dir(name)
	if err != nil {
		return nil, registry.NotFound(r.name, name, "", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, registry.NotFound(r.name, name, "", nil)
	}
	var versions []string
	for _, e := range entries {
		if v, ok := versionOf(e); ok {
			versions = append(versions, v)
		}
	}
	if len(versions) == 0 {
		return nil, registry.NotFound(r.name, name, "", nil)
	}
	return versions, nil
}

func latest(versions []string) string {
	semver.Sort(versions)
	return versions[0]
}

func versionOf(e fs.DirEntry) (string, bool) {
	n := e.Name()
	if e.IsDir() || !strings.HasPrefix(n, "v") || !strings.HasSuffix(n, tarballExt) {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(n, "v"), tarballExt), true
}

// Search returns packages whose name contains query, with their highest
// version.
func (r *Registry) Search(ctx context.Context, query string) ([]registry.SearchResult, error) {
	q := strings.ToLower(query)
	var out []registry.SearchResult
	err := filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if !d.IsDir() || path == r.root {
			return nil
		}
		rel, _ := filepath.Rel(r.root, path)
		name := filepath.ToSlash(rel)
		if !strings.Contains(strings.ToLower(name), q) {
			return nil
		}
		if versions, err := r.ListVersions(ctx, name); err == nil {
			out = append(out, registry.SearchResult{Name: name, Version: latest(versions)})
		}
		return nil
	})
	return out, err
}

func (r *Registry) DownloadTarball(ctx context.Context, name, version, dest string) error {
	meta, err := r.FetchMetadata(ctx, name, version)
	if err != nil {
		return registry.DownloadFailed(r.name, name, version, err)
	}
	src, _, err := r.paths(name, meta.Version)
	if err != nil {
		return registry.DownloadFailed(r.name, name, version, err)
	}
	f, err := os.Open(src)
	if err != nil {
		return registry.DownloadFailed(r.name, name, version, err)
	}
	defer f.Close()

	err = registry.WriteTarball(dest, meta.Integrity, func(w io.Writer) (int64, error) {
		return io.Copy(w, f)
	})
	if err != nil {
		return registry.DownloadFailed(r.name, name, version, err)
	}
	return nil
}

// Publish copies the tarball into the store and writes its metadata next to
// it. Existing versions are never replaced.
func (r *Registry) Publish(_ context.Context, meta *registry.PackageMetadata, tarballPath string) error {
	fail := func(err error) error { return registry.PublishFailed(r.name, meta.Name, meta.Version, err) }

	if _, err := semver.ParseVersion(meta.Version); err != nil {
		return fail(err)
	}
	dest, metaPath, err := r.paths(meta.Name, meta.Version)
	if err != nil {
		return fail(err)
	}
	if _, err := os.Stat(dest); err == nil {
		return fail(perrors.New(perrors.ErrCodeAlreadyExists, "version already exists"))
	}

	data, err := registry.ReadTarball(tarballPath)
	if err != nil {
		return fail(err)
	}
	m := *meta
	m.Version = strings.TrimPrefix(m.Version, "v")
	m.Tarball = ""
	if m.Integrity == "" {
		m.Integrity = integrations.ComputeIntegrity(data)
	}
	encoded, err := json.MarshalIndent(&m, "", "  ")
	if err != nil {
		return fail(err)
	}

	err = registry.WriteTarball(dest, m.Integrity, func(w io.Writer) (int64, error) {
		n, err := w.Write(data)
		return int64(n), err
	})
	if err != nil {
		return fail(err)
	}
	if err := os.WriteFile(metaPath, encoded, 0o644); err != nil {
		return fail(err)
	}
	return nil
}
