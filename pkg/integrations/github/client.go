package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/home-lang/pantry-sub014/pkg/integrations"
)

// DefaultBaseURL is the public GitHub API.
const DefaultBaseURL = "https://api.github.com"

// Client provides access to the GitHub API.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client. An empty baseURL means
// [DefaultBaseURL]; GitHub Enterprise installs pass their /api/v3 root.
func NewClient(opts integrations.Options, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
	}
	for k, v := range opts.Headers {
		headers[k] = v
	}
	opts.Headers = headers
	return &Client{
		Client:  integrations.NewClient(opts),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Repo fetches repository metadata.
func (c *Client) Repo(ctx context.Context, owner, repo string) (*Repo, error) {
	var data Repo
	u := fmt.Sprintf("%s/repos/%s/%s", c.baseURL, owner, repo)
	if err := c.Get(ctx, u, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: github repo %s/%s", integrations.ErrNotFound, owner, repo)
		}
		return nil, err
	}
	return &data, nil
}

// Tags lists up to the first hundred tags, newest first as GitHub reports them.
func (c *Client) Tags(ctx context.Context, owner, repo string) ([]Tag, error) {
	var tags []Tag
	u := fmt.Sprintf("%s/repos/%s/%s/tags?per_page=100", c.baseURL, owner, repo)
	if err := c.Get(ctx, u, &tags); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: github repo %s/%s", integrations.ErrNotFound, owner, repo)
		}
		return nil, err
	}
	return tags, nil
}

// Manifest reads package.json at ref. An empty ref reads the default branch.
func (c *Client) Manifest(ctx context.Context, owner, repo, ref string) (*Manifest, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/contents/package.json", c.baseURL, owner, repo)
	if ref != "" {
		u += "?ref=" + url.QueryEscape(ref)
	}
	var content contentResponse
	if err := c.Get(ctx, u, &content); err != nil {
		return nil, err
	}
	if content.Encoding != "base64" {
		return nil, fmt.Errorf("%w: unexpected content encoding %q", integrations.ErrInvalidResponse, content.Encoding)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(content.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", integrations.ErrInvalidResponse, err)
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: package.json: %v", integrations.ErrInvalidResponse, err)
	}
	return &m, nil
}

// DownloadTarball streams the source archive for ref into w.
func (c *Client) DownloadTarball(ctx context.Context, owner, repo, ref string, w io.Writer) (int64, error) {
	return c.Download(ctx, c.TarballURL(owner, repo, ref), w)
}

// TarballURL returns the API URL of the source archive for ref.
func (c *Client) TarballURL(owner, repo, ref string) string {
	return fmt.Sprintf("%s/repos/%s/%s/tarball/%s", c.baseURL, owner, repo, url.PathEscape(ref))
}

// SearchRepos runs a repository search and returns at most limit results.
func (c *Client) SearchRepos(ctx context.Context, query string, limit int) ([]Repo, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	u := fmt.Sprintf("%s/search/repositories?q=%s&per_page=%d", c.baseURL, url.QueryEscape(query), limit)
	var data searchResponse
	if err := c.Get(ctx, u, &data); err != nil {
		return nil, err
	}
	return data.Items, nil
}
