package registry

import (
	"strings"
)

// SourceKind classifies where a dependency name points.
type SourceKind int

const (
	// SourceAuto is an unqualified name, resolved by trying registries.
	SourceAuto SourceKind = iota
	SourceLocal
	SourceURL
	SourceGit
	SourceGitHub
	SourceNpm
	SourcePassthrough
)

var sourceNames = [...]string{"auto", "local", "url", "git", "github", "npm", "passthrough"}

func (k SourceKind) String() string {
	if int(k) < len(sourceNames) {
		return sourceNames[k]
	}
	return "unknown"
}

// Source is the result of [DetectSource].
type Source struct {
	Kind SourceKind
	// Name is the dependency name with any source prefix removed.
	Name string
}

var domainSuffixes = []string{
	".org", ".com", ".net", ".io", ".dev", ".sh", ".so", ".app", ".co", ".land", ".ai", ".rs", ".xyz",
}

// DetectSource classifies a dependency name.
func DetectSource(name string) Source {
	n := strings.TrimSpace(name)
	switch {
	case n == "":
		return Source{Kind: SourceAuto}
	case strings.HasPrefix(n, "file:"):
		return Source{Kind: SourceLocal, Name: strings.TrimPrefix(n, "file:")}
	case strings.HasPrefix(n, "./"), strings.HasPrefix(n, "../"), strings.HasPrefix(n, "/"), strings.HasPrefix(n, "~/"):
		return Source{Kind: SourceLocal, Name: n}
	case strings.HasPrefix(n, "github:"):
		return Source{Kind: SourceGitHub, Name: strings.TrimPrefix(n, "github:")}
	case strings.HasPrefix(n, "https://github.com/"):
		return Source{Kind: SourceGitHub, Name: strings.TrimSuffix(strings.TrimPrefix(n, "https://github.com/"), ".git")}
	case strings.HasPrefix(n, "git+"), strings.HasPrefix(n, "git://"), strings.HasPrefix(n, "git@"), strings.HasSuffix(n, ".git"):
		return Source{Kind: SourceGit, Name: n}
	case strings.HasPrefix(n, "http://"), strings.HasPrefix(n, "https://"):
		return Source{Kind: SourceURL, Name: n}
	case strings.HasPrefix(n, "npm:"):
		return Source{Kind: SourceNpm, Name: strings.TrimPrefix(n, "npm:")}
	case strings.HasPrefix(n, "@") && strings.Contains(n, "/"):
		return Source{Kind: SourceNpm, Name: n}
	}

	head, _, hasSlash := strings.Cut(n, "/")
	if hasDomainSuffix(head) {
		return Source{Kind: SourcePassthrough, Name: n}
	}
	if hasSlash && strings.Count(n, "/") == 1 && !strings.Contains(head, ".") {
		return Source{Kind: SourceGitHub, Name: n}
	}
	return Source{Kind: SourceAuto, Name: n}
}

func hasDomainSuffix(s string) bool {
	if !strings.Contains(s, ".") {
		return false
	}
	for _, suf := range domainSuffixes {
		if strings.HasSuffix(s, suf) && len(s) > len(suf) {
			return true
		}
	}
	return false
}
