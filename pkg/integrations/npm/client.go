package npm

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"

	"github.com/home-lang/pantry-sub014/pkg/integrations"
)

// DefaultBaseURL is the public npm registry.
const DefaultBaseURL = "https://registry.npmjs.org"

// Client provides access to an npm-compatible registry.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a client. An empty baseURL means [DefaultBaseURL].
func NewClient(opts integrations.Options, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if opts.Headers == nil {
		opts.Headers = map[string]string{"Accept": "application/json"}
	}
	return &Client{Client: integrations.NewClient(opts), baseURL: baseURL}
}

// BaseURL returns the registry root.
func (c *Client) BaseURL() string { return c.baseURL }

// Packument fetches the full document for name.
func (c *Client) Packument(ctx context.Context, name string) (*Packument, error) {
	var doc Packument
	if err := c.Get(ctx, integrations.JoinURL(c.baseURL, integrations.EscapePackage(name)), &doc); err != nil {
		return nil, notFound(err, name, "")
	}
	return &doc, nil
}

// Version fetches one version document. version may be a dist-tag.
func (c *Client) Version(ctx context.Context, name, version string) (*VersionDoc, error) {
	var doc VersionDoc
	u := integrations.JoinURL(c.baseURL, integrations.EscapePackage(name), url.PathEscape(version))
	if err := c.Get(ctx, u, &doc); err != nil {
		return nil, notFound(err, name, version)
	}
	return &doc, nil
}

// Search queries /-/v1/search. size is clamped to the registry's 1..250.
func (c *Client) Search(ctx context.Context, text string, size int) ([]SearchResult, error) {
	size = min(max(size, 1), 250)
	u := fmt.Sprintf("%s/-/v1/search?text=%s&size=%d", c.baseURL, url.QueryEscape(text), size)
	var data searchResponse
	if err := c.Get(ctx, u, &data); err != nil {
		return nil, err
	}
	out := make([]SearchResult, 0, len(data.Objects))
	for _, o := range data.Objects {
		out = append(out, o.Package)
	}
	return out, nil
}

// Publish uploads tarball as doc.Version and tags it latest. The tarball is
// embedded base64 in the JSON body as the npm protocol requires.
func (c *Client) Publish(ctx context.Context, doc VersionDoc, tarball []byte) error {
	if doc.Name == "" || doc.Version == "" {
		return errors.New("npm publish: name and version are required")
	}
	filename := fmt.Sprintf("%s-%s.tgz", path.Base(doc.Name), doc.Version)
	sum := sha1.Sum(tarball)
	doc.Dist = Dist{
		Tarball:   integrations.JoinURL(c.baseURL, doc.Name, "-", filename),
		Integrity: integrations.ComputeIntegrity(tarball),
		Shasum:    hex.EncodeToString(sum[:]),
	}

	body, err := json.Marshal(publishBody{
		ID:          doc.Name,
		Name:        doc.Name,
		Description: doc.Description,
		DistTags:    map[string]string{"latest": doc.Version},
		Versions:    map[string]VersionDoc{doc.Version: doc},
		Attachments: map[string]attachment{filename: {
			ContentType: "application/octet-stream",
			Data:        base64.StdEncoding.EncodeToString(tarball),
			Length:      len(tarball),
		}},
	})
	if err != nil {
		return err
	}
	headers := map[string]string{"Content-Type": "application/json"}
	return c.Send(ctx, http.MethodPut, integrations.JoinURL(c.baseURL, integrations.EscapePackage(doc.Name)), body, headers, nil)
}

func notFound(err error, name, version string) error {
	if !errors.Is(err, integrations.ErrNotFound) {
		return err
	}
	if version != "" {
		name += "@" + version
	}
	return fmt.Errorf("%w: npm package %s", err, name)
}
