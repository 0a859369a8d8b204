package github

// Repo is the subset of a repository document used for package metadata.
type Repo struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Description   string `json:"description"`
	HTMLURL       string `json:"html_url"`
	Homepage      string `json:"homepage"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
	Archived      bool   `json:"archived"`
	License       *struct {
		SPDXID string `json:"spdx_id"`
	} `json:"license"`
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
}

// LicenseID returns the SPDX identifier, or "" when GitHub has none.
func (r *Repo) LicenseID() string {
	if r.License == nil || r.License.SPDXID == "NOASSERTION" {
		return ""
	}
	return r.License.SPDXID
}

// Tag is a git tag.
type Tag struct {
	Name   string `json:"name"`
	Commit struct {
		SHA string `json:"sha"`
	} `json:"commit"`
	TarballURL string `json:"tarball_url"`
}

// Manifest is the part of a repository's package.json read for dependencies.
type Manifest struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	Description          string            `json:"description"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
}

type searchResponse struct {
	TotalCount int    `json:"total_count"`
	Items      []Repo `json:"items"`
}

type contentResponse struct {
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}
