package github

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// 1-39 alphanumerics or hyphens, no leading hyphen
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	validRepo  = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// ErrInvalidRef is returned for malformed repository references.
var ErrInvalidRef = errors.New("invalid github reference")

// Ref identifies a repository and an optional git ref.
type Ref struct {
	Owner string
	Repo  string
	Ref   string // tag, branch or commit; empty means default branch
}

func (r Ref) String() string {
	s := r.Owner + "/" + r.Repo
	if r.Ref != "" {
		s += "#" + r.Ref
	}
	return s
}

// ValidateOwner validates a GitHub username or organization name.
func ValidateOwner(owner string) error {
	if owner == "" {
		return fmt.Errorf("%w: owner is required", ErrInvalidRef)
	}
	if !validOwner.MatchString(owner) {
		return fmt.Errorf("%w: owner %q", ErrInvalidRef, owner)
	}
	return nil
}

// ValidateRepo validates a GitHub repository name.
func ValidateRepo(repo string) error {
	if repo == "" {
		return fmt.Errorf("%w: repo is required", ErrInvalidRef)
	}
	if !validRepo.MatchString(repo) {
		return fmt.Errorf("%w: repo %q", ErrInvalidRef, repo)
	}
	return nil
}

// ParseRef parses "owner/repo", "owner/repo#ref" and the same forms with a
// "github:" prefix or a github.com URL in front.
func ParseRef(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "github:")
	for _, p := range []string{"https://github.com/", "http://github.com/", "github.com/"} {
		s = strings.TrimPrefix(s, p)
	}

	var ref Ref
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s, ref.Ref = s[:i], s[i+1:]
	}
	owner, repo, ok := strings.Cut(strings.TrimSuffix(s, ".git"), "/")
	if !ok {
		return Ref{}, fmt.Errorf("%w: %q, use owner/repo", ErrInvalidRef, s)
	}
	if err := ValidateOwner(owner); err != nil {
		return Ref{}, err
	}
	if err := ValidateRepo(repo); err != nil {
		return Ref{}, err
	}
	ref.Owner, ref.Repo = owner, repo
	return ref, nil
}
