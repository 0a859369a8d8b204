// Package rest implements the first-party registry REST protocol:
//
//	GET  /packages/{name}              latest metadata
//	GET  /packages/{name}/{version}    metadata of one version
//	GET  /packages/{name}/versions     {"versions": [...]}
//	GET  /packages/{name}/{version}/tarball
//	GET  /search?q={query}             {"results": [...]}
//	POST /publish                      {"metadata": {...}, "tarball": "<base64>"}
//
// Metadata bodies are [registry.PackageMetadata] documents. A metadata body
// without a tarball field downloads from the /tarball endpoint.
package rest

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/home-lang/pantry-sub014/pkg/integrations"
	"github.com/home-lang/pantry-sub014/pkg/registry"
)

// Registry talks to one REST registry.
type Registry struct {
	name    string
	typ     registry.Type
	baseURL string
	client  *integrations.Client
}

// New creates a backend. typ is reported by Type so that wrappers built on
// this protocol keep their own identity.
func New(name string, typ registry.Type, baseURL string, client *integrations.Client) *Registry {
	return &Registry{name: name, typ: typ, baseURL: baseURL, client: client}
}

func (r *Registry) Name() string                 { return r.name }
func (r *Registry) Type() registry.Type          { return r.typ }
func (r *Registry) BaseURL() string              { return r.baseURL }
func (r *Registry) Client() *integrations.Client { return r.client }

func (r *Registry) packageURL(name string, rest ...string) string {
	return integrations.JoinURL(r.baseURL, append([]string{"packages", integrations.EscapePackage(name)}, rest...)...)
}

func (r *Registry) FetchMetadata(ctx context.Context, name, version string) (*registry.PackageMetadata, error) {
	u := r.packageURL(name)
	if version != "" {
		u = r.packageURL(name, url.PathEscape(version))
	}
	var meta registry.PackageMetadata
	if err := r.client.Get(ctx, u, &meta); err != nil {
		return nil, registry.NotFound(r.name, name, version, err)
	}
	if meta.Name == "" {
		meta.Name = name
	}
	meta.Origin = r.name
	return &meta, nil
}

type versionsResponse struct {
	Versions []string `json:"versions"`
}

func (r *Registry) ListVersions(ctx context.Context, name string) ([]string, error) {
	var resp versionsResponse
	if err := r.client.Get(ctx, r.packageURL(name, "versions"), &resp); err != nil {
		return nil, registry.NotFound(r.name, name, "", err)
	}
	return resp.Versions, nil
}

type searchResponse struct {
	Results []registry.SearchResult `json:"results"`
}

func (r *Registry) Search(ctx context.Context, query string) ([]registry.SearchResult, error) {
	var resp searchResponse
	u := integrations.JoinURL(r.baseURL, "search") + "?q=" + url.QueryEscape(query)
	if err := r.client.Get(ctx, u, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// TarballURL returns where the archive of meta can be downloaded.
func (r *Registry) TarballURL(meta *registry.PackageMetadata) string {
	if meta.Tarball != "" {
		return meta.Tarball
	}
	return r.packageURL(meta.Name, url.PathEscape(meta.Version), "tarball")
}

func (r *Registry) DownloadTarball(ctx context.Context, name, version, dest string) error {
	meta, err := r.FetchMetadata(ctx, name, version)
	if err != nil {
		return registry.DownloadFailed(r.name, name, version, err)
	}
	err = registry.WriteTarball(dest, meta.Integrity, func(w io.Writer) (int64, error) {
		return r.client.Download(ctx, r.TarballURL(meta), w)
	})
	if err != nil {
		return registry.DownloadFailed(r.name, name, version, err)
	}
	return nil
}

type publishRequest struct {
	Metadata *registry.PackageMetadata `json:"metadata"`
	Tarball  string                    `json:"tarball"`
}

// Publish posts the metadata with the tarball embedded as base64.
func (r *Registry) Publish(ctx context.Context, meta *registry.PackageMetadata, tarballPath string) error {
	data, err := registry.ReadTarball(tarballPath)
	if err != nil {
		return registry.PublishFailed(r.name, meta.Name, meta.Version, err)
	}
	if meta.Integrity == "" {
		m := *meta
		m.Integrity = integrations.ComputeIntegrity(data)
		meta = &m
	}
	body, err := json.Marshal(publishRequest{Metadata: meta, Tarball: base64.StdEncoding.EncodeToString(data)})
	if err != nil {
		return registry.PublishFailed(r.name, meta.Name, meta.Version, err)
	}
	headers := map[string]string{"Content-Type": "application/json"}
	if err := r.client.Send(ctx, http.MethodPost, r.PublishURL(), body, headers, nil); err != nil {
		return registry.PublishFailed(r.name, meta.Name, meta.Version, err)
	}
	return nil
}

// PublishURL is the upload endpoint.
func (r *Registry) PublishURL() string { return integrations.JoinURL(r.baseURL, "publish") }
