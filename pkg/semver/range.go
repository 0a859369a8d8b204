package semver

import (
	"fmt"
	"strings"
)

// Matcher is anything that can decide whether a version is acceptable.
// Both Constraint and Range implement it.
type Matcher interface {
	Satisfies(v Version) bool
}

// Range is a disjunction of comparator sets: the range matches when every
// comparator of at least one set matches.
type Range struct {
	raw  string
	sets [][]Constraint
}

// ParseRange parses npm-style range syntax.
func ParseRange(s string) (Range, error) {
	r := Range{raw: strings.TrimSpace(s)}
	for _, alt := range strings.Split(r.raw, "||") {
		set, err := parseSet(strings.TrimSpace(alt))
		if err != nil {
			return Range{}, fmt.Errorf("%w: %q", ErrInvalidConstraint, s)
		}
		r.sets = append(r.sets, set)
	}
	return r, nil
}

// MustParseRange is like ParseRange but panics on error.
func MustParseRange(s string) Range {
	r, err := ParseRange(s)
	if err != nil {
		panic(err)
	}
	return r
}

func parseSet(s string) ([]Constraint, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return []Constraint{Any}, nil
	}
	if len(fields) == 3 && fields[1] == "-" {
		lo, err := lowerBound(fields[0])
		if err != nil {
			return nil, err
		}
		hi, err := upperBound(fields[2])
		if err != nil {
			return nil, err
		}
		return []Constraint{lo, hi}, nil
	}

	var tokens []string
	for i := 0; i < len(fields); i++ {
		tok := fields[i]
		if isBareOperator(tok) && i+1 < len(fields) {
			tok += fields[i+1]
			i++
		}
		tokens = append(tokens, tok)
	}

	var set []Constraint
	for _, tok := range tokens {
		cs, err := parseToken(tok)
		if err != nil {
			return nil, err
		}
		set = append(set, cs...)
	}
	return set, nil
}

func isBareOperator(s string) bool {
	switch s {
	case ">=", "<=", ">", "<", "=", "^", "~":
		return true
	}
	return false
}

func parseToken(tok string) ([]Constraint, error) {
	sigil, ver := splitSigil(tok)
	if !hasWildcard(ver) {
		c, err := ParseConstraint(tok)
		if err != nil {
			return nil, err
		}
		return []Constraint{c}, nil
	}
	parts := strings.Split(ver, ".")
	switch sigil {
	case "", "=", "~":
		// ~1.x and ~1.2.x are the x-ranges 1.x and 1.2.x.
	case "^":
		// ^1.2.x is ^1.2.0; with a wildcard minor or a zero major it is
		// the x-range.
		if isWildcard(parts[0]) || strings.TrimPrefix(parts[0], "v") == "0" || len(parts) < 3 || isWildcard(parts[1]) {
			break
		}
		fallthrough
	default:
		c, err := ParseConstraint(sigil + zeroWildcards(ver))
		if err != nil {
			return nil, err
		}
		return []Constraint{c}, nil
	}

	if isWildcard(parts[0]) {
		return []Constraint{Any}, nil
	}
	lo, err := ParseVersion(zeroWildcards(ver))
	if err != nil {
		return nil, err
	}
	hi := Version{Major: lo.Major + 1}
	if len(parts) > 2 && !isWildcard(parts[1]) {
		hi = Version{Major: lo.Major, Minor: lo.Minor + 1}
	}
	return []Constraint{
		{Op: OpGTE, Major: lo.Major, Minor: lo.Minor},
		{Op: OpLT, Major: hi.Major, Minor: hi.Minor},
	}, nil
}

func lowerBound(s string) (Constraint, error) {
	v, err := ParseVersion(zeroWildcards(s))
	if err != nil {
		return Constraint{}, err
	}
	return Constraint{Op: OpGTE, Major: v.Major, Minor: v.Minor, Patch: v.Patch}, nil
}

// upperBound is inclusive for a full version; a partial one like 2 or 2.3
// excludes the next major or minor.
func upperBound(s string) (Constraint, error) {
	if !hasWildcard(s) {
		v, err := ParseVersion(s)
		if err != nil {
			return Constraint{}, err
		}
		core, _, _ := strings.Cut(strings.TrimPrefix(s, "v"), "-")
		core, _, _ = strings.Cut(core, "+")
		switch strings.Count(core, ".") {
		case 0:
			return Constraint{Op: OpLT, Major: v.Major + 1}, nil
		case 1:
			return Constraint{Op: OpLT, Major: v.Major, Minor: v.Minor + 1}, nil
		}
		return Constraint{Op: OpLTE, Major: v.Major, Minor: v.Minor, Patch: v.Patch}, nil
	}
	cs, err := parseToken(s)
	if err != nil {
		return Constraint{}, err
	}
	return cs[len(cs)-1], nil
}

func splitSigil(tok string) (string, string) {
	for _, sig := range []string{">=", "<=", ">", "<", "^", "~", "="} {
		if strings.HasPrefix(tok, sig) {
			return sig, tok[len(sig):]
		}
	}
	return "", tok
}

func hasWildcard(ver string) bool {
	for _, p := range strings.Split(strings.TrimPrefix(ver, "v"), ".") {
		if isWildcard(p) {
			return true
		}
	}
	return false
}

func isWildcard(p string) bool {
	return p == "x" || p == "X" || p == "*"
}

func zeroWildcards(ver string) string {
	parts := strings.Split(ver, ".")
	for i, p := range parts {
		if isWildcard(p) {
			parts[i] = "0"
		}
	}
	return strings.Join(parts, ".")
}

// Satisfies reports whether v matches any comparator set in the range.
func (r Range) Satisfies(v Version) bool {
	for _, set := range r.sets {
		ok := true
		for _, c := range set {
			if !c.Satisfies(v) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// SatisfiesString parses version and reports whether the range accepts it.
func (r Range) SatisfiesString(version string) bool {
	v, err := ParseVersion(version)
	if err != nil {
		return false
	}
	return r.Satisfies(v)
}

// Constraints returns the comparator sets of the range.
func (r Range) Constraints() [][]Constraint {
	return r.sets
}

func (r Range) String() string {
	if r.raw == "" {
		return "*"
	}
	return r.raw
}

// MaxSatisfying returns the highest version in versions accepted by m.
// Unparseable entries are skipped. The second result is false when nothing
// matches.
func MaxSatisfying(versions []string, m Matcher) (string, bool) {
	return pick(versions, m, 1)
}

// MinSatisfying returns the lowest version in versions accepted by m.
func MinSatisfying(versions []string, m Matcher) (string, bool) {
	return pick(versions, m, -1)
}

func pick(versions []string, m Matcher, want int) (string, bool) {
	var (
		best    Version
		bestRaw string
		found   bool
	)
	for _, raw := range versions {
		v, err := ParseVersion(raw)
		if err != nil || !m.Satisfies(v) {
			continue
		}
		if !found || Compare(v, best) == want {
			best, bestRaw, found = v, raw, true
		}
	}
	return bestRaw, found
}
