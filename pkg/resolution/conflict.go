package resolution

import (
	"slices"

	perrors "github.com/home-lang/pantry-sub014/pkg/errors"
	"github.com/home-lang/pantry-sub014/pkg/semver"
)

// Strategy chooses among versions that satisfy the collected ranges.
type Strategy int

const (
	// Highest picks the newest satisfying version.
	Highest Strategy = iota
	// Lowest picks the oldest satisfying version.
	Lowest
)

func (s Strategy) String() string {
	if s == Lowest {
		return "lowest"
	}
	return "highest"
}

// ParseStrategy accepts "highest" and "lowest". Anything else is Highest.
func ParseStrategy(s string) Strategy {
	if s == "lowest" {
		return Lowest
	}
	return Highest
}

// Requirement is one range requested for a package.
type Requirement struct {
	Range       string
	RequestedBy string // empty for direct dependencies
	matcher     semver.Range
}

// Conflict records a chosen version that some requirement does not accept.
type Conflict struct {
	Name        string
	Chosen      string
	Unsatisfied []Requirement
}

// Resolution is the version chosen for a package and the ranges it had to
// satisfy.
type Resolution struct {
	Name         string
	Version      string
	Requirements []Requirement
}

type allOf []Requirement

func (a allOf) Satisfies(v semver.Version) bool {
	for _, r := range a {
		if !r.matcher.Satisfies(v) {
			return false
		}
	}
	return true
}

// ConflictResolver collects the ranges requested for each package and picks
// one version per package.
type ConflictResolver struct {
	strategy Strategy
	order    []string
	reqs     map[string][]Requirement
	chosen   map[string]string
	conflict map[string]*Conflict
}

// NewConflictResolver creates a resolver using strategy.
func NewConflictResolver(strategy Strategy) *ConflictResolver {
	return &ConflictResolver{
		strategy: strategy,
		reqs:     make(map[string][]Requirement),
		chosen:   make(map[string]string),
		conflict: make(map[string]*Conflict),
	}
}

// Require records that requestedBy needs name within rng. When name was
// already chosen and rng rejects that version, a conflict is recorded; the
// choice itself does not change.
func (c *ConflictResolver) Require(name, rng, requestedBy string) error {
	m, err := semver.ParseRange(rng)
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidVersion, err, "%s requires %s", label(requestedBy), name)
	}
	req := Requirement{Range: rng, RequestedBy: requestedBy, matcher: m}
	if _, seen := c.reqs[name]; !seen {
		c.order = append(c.order, name)
	}
	c.reqs[name] = append(c.reqs[name], req)

	if v, ok := c.chosen[name]; ok && !m.SatisfiesString(v) {
		c.addConflict(name, v, req)
	}
	return nil
}

// Select picks a version of name from versions. The strategy applies to the
// versions satisfying every requirement; when none does, it applies to the
// versions satisfying the first requirement and the rest are recorded as a
// conflict. A package with no requirements accepts any version. Prereleases
// are picked only when no release qualifies.
func (c *ConflictResolver) Select(name string, versions []string) (string, error) {
	reqs := c.reqs[name]
	if v, ok := c.pick(versions, allOf(reqs)); ok {
		c.Choose(name, v)
		return v, nil
	}
	if len(reqs) == 0 {
		return "", perrors.New(perrors.ErrCodeNoMatchingVersion, "%s has no published versions", name)
	}
	v, ok := c.pick(versions, reqs[0].matcher)
	if !ok {
		return "", perrors.New(perrors.ErrCodeNoMatchingVersion, "no version of %s satisfies %s", name, reqs[0].Range)
	}
	c.Choose(name, v)
	return v, nil
}

// pick applies the strategy to releases first and falls back to
// prereleases only when no release matches.
func (c *ConflictResolver) pick(versions []string, m semver.Matcher) (string, bool) {
	fn := semver.MaxSatisfying
	if c.strategy == Lowest {
		fn = semver.MinSatisfying
	}
	releases := slices.DeleteFunc(slices.Clone(versions), func(s string) bool {
		v, err := semver.ParseVersion(s)
		return err != nil || v.IsPrerelease()
	})
	if v, ok := fn(releases, m); ok {
		return v, true
	}
	return fn(versions, m)
}

// Choose fixes the version of name without consulting a version list, as
// for a lock record hit. Requirements the version does not satisfy are
// recorded as a conflict.
func (c *ConflictResolver) Choose(name, version string) {
	if _, seen := c.reqs[name]; !seen {
		c.order = append(c.order, name)
		c.reqs[name] = nil
	}
	c.chosen[name] = version
	for _, r := range c.reqs[name] {
		if !r.matcher.SatisfiesString(version) {
			c.addConflict(name, version, r)
		}
	}
}

// Chosen returns the version picked for name.
func (c *ConflictResolver) Chosen(name string) (string, bool) {
	v, ok := c.chosen[name]
	return v, ok
}

func (c *ConflictResolver) addConflict(name, version string, req Requirement) {
	cf, ok := c.conflict[name]
	if !ok {
		cf = &Conflict{Name: name, Chosen: version}
		c.conflict[name] = cf
	}
	if !slices.ContainsFunc(cf.Unsatisfied, func(r Requirement) bool {
		return r.Range == req.Range && r.RequestedBy == req.RequestedBy
	}) {
		cf.Unsatisfied = append(cf.Unsatisfied, req)
	}
}

// Conflicts returns recorded conflicts in the order packages were first
// required.
func (c *ConflictResolver) Conflicts() []Conflict {
	var out []Conflict
	for _, name := range c.order {
		if cf, ok := c.conflict[name]; ok {
			out = append(out, *cf)
		}
	}
	return out
}

// Resolutions returns every chosen version in the order packages were first
// required.
func (c *ConflictResolver) Resolutions() []Resolution {
	var out []Resolution
	for _, name := range c.order {
		if v, ok := c.chosen[name]; ok {
			out = append(out, Resolution{Name: name, Version: v, Requirements: c.reqs[name]})
		}
	}
	return out
}

func label(requestedBy string) string {
	if requestedBy == "" {
		return "manifest"
	}
	return requestedBy
}
