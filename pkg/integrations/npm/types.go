package npm

import "github.com/home-lang/pantry-sub014/pkg/integrations"

// Packument is the full document for one package.
type Packument struct {
	Name     string                `json:"name"`
	DistTags map[string]string     `json:"dist-tags"`
	Versions map[string]VersionDoc `json:"versions"`
	Time     map[string]string     `json:"time,omitempty"`
}

// Dist locates a version's tarball.
type Dist struct {
	Tarball   string `json:"tarball"`
	Integrity string `json:"integrity,omitempty"`
	Shasum    string `json:"shasum,omitempty"`
}

// PeerMeta annotates a peer dependency.
type PeerMeta struct {
	Optional bool `json:"optional"`
}

// VersionDoc is the manifest of one published version.
type VersionDoc struct {
	Name                 string              `json:"name"`
	Version              string              `json:"version"`
	Description          string              `json:"description,omitempty"`
	License              any                 `json:"license,omitempty"`
	Repository           any                 `json:"repository,omitempty"`
	Homepage             string              `json:"homepage,omitempty"`
	Dependencies         map[string]string   `json:"dependencies,omitempty"`
	DevDependencies      map[string]string   `json:"devDependencies,omitempty"`
	PeerDependencies     map[string]string   `json:"peerDependencies,omitempty"`
	PeerDependenciesMeta map[string]PeerMeta `json:"peerDependenciesMeta,omitempty"`
	OptionalDependencies map[string]string   `json:"optionalDependencies,omitempty"`
	OS                   []string            `json:"os,omitempty"`
	CPU                  []string            `json:"cpu,omitempty"`
	Dist                 Dist                `json:"dist"`
}

// LicenseName reads "license" whether it is a string or a {type} object.
func (v *VersionDoc) LicenseName() string { return extractField(v.License, "type") }

// RepositoryURL reads "repository" in string or {url} form, normalized to
// an https URL.
func (v *VersionDoc) RepositoryURL() string {
	return integrations.NormalizeRepoURL(extractField(v.Repository, "url"))
}

// SearchResult is one hit from the search endpoint.
type SearchResult struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

type searchResponse struct {
	Objects []struct {
		Package SearchResult `json:"package"`
	} `json:"objects"`
	Total int `json:"total"`
}

type attachment struct {
	ContentType string `json:"content_type"`
	Data        string `json:"data"`
	Length      int    `json:"length"`
}

type publishBody struct {
	ID          string                `json:"_id"`
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	DistTags    map[string]string     `json:"dist-tags"`
	Versions    map[string]VersionDoc `json:"versions"`
	Attachments map[string]attachment `json:"_attachments"`
}

func extractField(v any, field string) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val[field].(string); ok {
			return s
		}
	}
	return ""
}
