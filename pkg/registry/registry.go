package registry

import (
	"context"
	"slices"
)

// Type identifies a backend implementation.
type Type string

const (
	TypePassthrough Type = "passthrough"
	TypePantry      Type = "pantry"
	TypeNpm         Type = "npm"
	TypeCustom      Type = "custom"
	TypeGitHub      Type = "github"
)

// Types lists every backend type in auto-resolution order.
var Types = []Type{TypePassthrough, TypePantry, TypeNpm, TypeCustom, TypeGitHub}

// Valid reports whether t names a known backend.
func (t Type) Valid() bool { return slices.Contains(Types, t) }

// Registry is one package origin.
type Registry interface {
	// Name identifies this registry in configuration and lock records.
	Name() string
	// Type reports the backend kind.
	Type() Type
	// FetchMetadata describes name at version. An empty version means the
	// latest published version.
	FetchMetadata(ctx context.Context, name, version string) (*PackageMetadata, error)
	// DownloadTarball writes the archive of name@version to dest.
	DownloadTarball(ctx context.Context, name, version, dest string) error
	// Search finds packages matching a free-form query.
	Search(ctx context.Context, query string) ([]SearchResult, error)
	// ListVersions returns every published version. Order is unspecified.
	ListVersions(ctx context.Context, name string) ([]string, error)
	// Publish uploads the tarball at tarballPath as meta.Name@meta.Version.
	Publish(ctx context.Context, meta *PackageMetadata, tarballPath string) error
}

// PackageMetadata describes one package version, identically for every
// origin.
type PackageMetadata struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	Repository  string `json:"repository,omitempty"`
	Homepage    string `json:"homepage,omitempty"`
	License     string `json:"license,omitempty"`

	// Tarball locates the archive. Integrity is an SRI string or hex shasum.
	Tarball   string `json:"tarball,omitempty"`
	Integrity string `json:"integrity,omitempty"`

	Dependencies         map[string]string `json:"dependencies,omitempty"`
	DevDependencies      map[string]string `json:"devDependencies,omitempty"`
	PeerDependencies     map[string]string `json:"peerDependencies,omitempty"`
	OptionalDependencies map[string]string `json:"optionalDependencies,omitempty"`
	// OptionalPeers holds peers marked optional in peerDependenciesMeta.
	OptionalPeers []string `json:"optionalPeers,omitempty"`

	OS  []string `json:"os,omitempty"`
	CPU []string `json:"cpu,omitempty"`

	// Origin is the name of the registry that served this value.
	Origin string `json:"-"`
}

// IsOptionalPeer reports whether peer is marked optional.
func (m *PackageMetadata) IsOptionalPeer(peer string) bool {
	return slices.Contains(m.OptionalPeers, peer)
}

// SearchResult is one search hit.
type SearchResult struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
}

// Config describes one configured registry.
type Config struct {
	Name     string `toml:"name" validate:"required"`
	Type     Type   `toml:"type" validate:"required,oneof=passthrough pantry npm custom github"`
	URL      string `toml:"url" validate:"omitempty,url"`
	Auth     Auth   `toml:"auth"`
	Priority int    `toml:"priority" validate:"gte=0"`
	Enabled  *bool  `toml:"enabled"`

	// Root is the pass-through store directory.
	Root string `toml:"root"`
	// Fallback is the npm registry a pantry backend falls back to. Empty
	// means the public npm registry.
	Fallback string `toml:"fallback" validate:"omitempty,url"`
}

// IsEnabled reports whether the registry takes part in resolution. Registries
// are enabled unless configured otherwise.
func (c Config) IsEnabled() bool { return c.Enabled == nil || *c.Enabled }
