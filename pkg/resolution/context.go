package resolution

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/home-lang/pantry-sub014/pkg/lockfile"
	"github.com/home-lang/pantry-sub014/pkg/semver"
)

// Options configure a Context.
type Options struct {
	Strategy    Strategy
	StrictPeers bool
	// Lock is a previously saved record, or nil.
	Lock *lockfile.LockFile
	// Warn receives non-fatal problems. Nil discards them.
	Warn func(format string, args ...any)
}

// Context is the state of one resolution.
type Context struct {
	ID        string
	Conflicts *ConflictResolver
	Peers     *PeerManager
	Optional  *OptionalManager
	Lock      *lockfile.LockFile

	warn     func(string, ...any)
	warnings []string
}

// NewContext creates a context with a fresh session ID.
func NewContext(opts Options) *Context {
	return &Context{
		ID:        uuid.NewString(),
		Conflicts: NewConflictResolver(opts.Strategy),
		Peers:     NewPeerManager(opts.StrictPeers),
		Optional:  NewOptionalManager(),
		Lock:      opts.Lock,
		warn:      opts.Warn,
	}
}

// Warn records a warning and forwards it to the side channel.
func (c *Context) Warn(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
	if c.warn != nil {
		c.warn(format, args...)
	}
}

// Warnings returns everything passed to Warn.
func (c *Context) Warnings() []string { return c.warnings }

// Locked returns the locked version of name that rng accepts, if the context
// has a lock record holding one. The newest such version wins.
func (c *Context) Locked(name, rng string) (lockfile.Entry, bool) {
	if c.Lock == nil {
		return lockfile.Entry{}, false
	}
	var (
		best  lockfile.Entry
		found bool
	)
	for _, e := range c.Lock.Versions(name) {
		if !peerAccepts(rng, e.Version) || !validVersion(e.Version) {
			continue
		}
		if !found || newer(e.Version, best.Version) {
			best, found = e, true
		}
	}
	return best, found
}

// Package is one entry of the install plan.
type Package struct {
	Name      string
	Version   string
	Origin    string
	Resolved  string // tarball URL, or the link target for non-registry sources
	Integrity string
	Deps      []string
	Optional  bool
	Dev       bool
	Link      bool // installed from a path, URL or git remote, not a registry
	// Source is the name the registry knows the package by, when it differs
	// from Name: the target of an npm: alias or a GitHub owner/repo.
	Source string
}

// LookupName returns the name to request from the origin registry.
func (p Package) LookupName() string {
	if p.Source != "" {
		return p.Source
	}
	return p.Name
}

// Result bundles a finished resolution.
type Result struct {
	ID          string
	Order       []string
	Packages    []Package
	Resolutions []Resolution
	Conflicts   []Conflict
	Peers       PeerResult
	Optional    OptionalSummary
	Warnings    []string
}

// Result assembles the final outcome. packages must be in install order.
func (c *Context) Result(packages []Package, peers PeerResult) *Result {
	order := make([]string, len(packages))
	for i, p := range packages {
		order[i] = p.Name
	}
	return &Result{
		ID:          c.ID,
		Order:       order,
		Packages:    packages,
		Resolutions: c.Conflicts.Resolutions(),
		Conflicts:   c.Conflicts.Conflicts(),
		Peers:       peers,
		Optional:    c.Optional.Summary(),
		Warnings:    c.warnings,
	}
}

// Package returns the planned package called name.
func (r *Result) Package(name string) (Package, bool) {
	for _, p := range r.Packages {
		if p.Name == name {
			return p, true
		}
	}
	return Package{}, false
}

// LockFile converts the plan into a lock record.
func (r *Result) LockFile() *lockfile.LockFile {
	lf := lockfile.New()
	versions := make(map[string]string, len(r.Packages))
	for _, p := range r.Packages {
		versions[p.Name] = p.Version
	}
	for _, p := range r.Packages {
		e := lockfile.Entry{
			Name:      p.Name,
			Version:   p.Version,
			Resolved:  p.Resolved,
			Integrity: p.Integrity,
			Dev:       p.Dev,
			Optional:  p.Optional,
			Origin:    p.Origin,
			Source:    p.Source,
		}
		for _, d := range p.Deps {
			if v, ok := versions[d]; ok {
				if e.Dependencies == nil {
					e.Dependencies = make(map[string]string)
				}
				e.Dependencies[d] = v
			}
		}
		lf.Put(e)
	}
	return lf
}

func validVersion(v string) bool {
	_, err := semver.ParseVersion(v)
	return err == nil
}

func newer(a, b string) bool { return semver.CompareStrings(a, b) > 0 }
