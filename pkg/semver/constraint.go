package semver

import (
	"fmt"
	"strings"
)

// Operator identifies the comparison a Constraint performs.
type Operator int

const (
	OpAny Operator = iota
	OpExact
	OpCaret
	OpTilde
	OpGTE
	OpLTE
	OpGT
	OpLT
)

var opSigils = map[Operator]string{
	OpExact: "",
	OpCaret: "^",
	OpTilde: "~",
	OpGTE:   ">=",
	OpLTE:   "<=",
	OpGT:    ">",
	OpLT:    "<",
}

func (o Operator) String() string {
	switch o {
	case OpAny:
		return "any"
	case OpExact:
		return "exact"
	case OpCaret:
		return "caret"
	case OpTilde:
		return "tilde"
	case OpGTE:
		return "gte"
	case OpLTE:
		return "lte"
	case OpGT:
		return "gt"
	case OpLT:
		return "lt"
	}
	return fmt.Sprintf("Operator(%d)", int(o))
}

// Constraint is a single parsed comparator. It is immutable once parsed.
type Constraint struct {
	Op    Operator
	Major int
	Minor int
	Patch int
}

// Any matches every version.
var Any = Constraint{Op: OpAny}

// ParseConstraint parses a single comparator.
//
// Two-character sigils are checked before one-character ones so ">=1.0.0" is not
// read as ">" followed by "=1.0.0". The literals "*", "latest" and the empty
// string parse to [Any].
func ParseConstraint(s string) (Constraint, error) {
	raw := strings.TrimSpace(s)
	switch raw {
	case "", "*", "latest", "x", "X":
		return Any, nil
	}

	op := OpExact
	rest := raw
	switch {
	case strings.HasPrefix(raw, ">="):
		op, rest = OpGTE, raw[2:]
	case strings.HasPrefix(raw, "<="):
		op, rest = OpLTE, raw[2:]
	case strings.HasPrefix(raw, ">"):
		op, rest = OpGT, raw[1:]
	case strings.HasPrefix(raw, "<"):
		op, rest = OpLT, raw[1:]
	case strings.HasPrefix(raw, "^"):
		op, rest = OpCaret, raw[1:]
	case strings.HasPrefix(raw, "~"):
		op, rest = OpTilde, raw[1:]
	case strings.HasPrefix(raw, "="):
		op, rest = OpExact, raw[1:]
	}

	v, err := ParseVersion(strings.TrimSpace(rest))
	if err != nil {
		return Constraint{}, fmt.Errorf("%w: %q", ErrInvalidConstraint, s)
	}
	return Constraint{Op: op, Major: v.Major, Minor: v.Minor, Patch: v.Patch}, nil
}

// MustParseConstraint is like ParseConstraint but panics on error.
func MustParseConstraint(s string) Constraint {
	c, err := ParseConstraint(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Satisfies reports whether v meets the constraint. Prerelease and build
// metadata are ignored.
func (c Constraint) Satisfies(v Version) bool {
	bound := c.version()
	switch c.Op {
	case OpAny:
		return true
	case OpExact:
		return compareCore(v, bound) == 0
	case OpCaret:
		return satisfiesCaret(c, v)
	case OpTilde:
		return v.Major == c.Major && v.Minor == c.Minor && v.Patch >= c.Patch
	case OpGTE:
		return compareCore(v, bound) >= 0
	case OpLTE:
		return compareCore(v, bound) <= 0
	case OpGT:
		return compareCore(v, bound) > 0
	case OpLT:
		return compareCore(v, bound) < 0
	}
	return false
}

func satisfiesCaret(c Constraint, v Version) bool {
	switch {
	case c.Major == 0 && c.Minor == 0:
		return v.Major == 0 && v.Minor == 0 && v.Patch == c.Patch
	case c.Major == 0:
		return v.Major == 0 && v.Minor == c.Minor && v.Patch >= c.Patch
	}
	if v.Major != c.Major {
		return false
	}
	return v.Minor > c.Minor || (v.Minor == c.Minor && v.Patch >= c.Patch)
}

// SatisfiesString parses version and reports whether it meets the constraint.
// Unparseable versions never satisfy.
func (c Constraint) SatisfiesString(version string) bool {
	v, err := ParseVersion(version)
	if err != nil {
		return false
	}
	return c.Satisfies(v)
}

func (c Constraint) version() Version {
	return Version{Major: c.Major, Minor: c.Minor, Patch: c.Patch}
}

func (c Constraint) String() string {
	if c.Op == OpAny {
		return "*"
	}
	return opSigils[c.Op] + c.version().String()
}
