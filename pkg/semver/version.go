package semver

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Version is a parsed semantic version. Only Major, Minor and Patch take part
// in constraint evaluation; Prerelease and Build are kept for display and for
// breaking ties when ranking.
type Version struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease string
	Build      string
}

// ParseVersion parses s into a Version.
//
// A leading "v" is stripped. The core is split on "." and anything after the
// first "-" or "+" is treated as prerelease or build metadata. The major
// component is required; a missing or non-numeric minor or patch becomes 0.
func ParseVersion(s string) (Version, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(raw, "v")
	raw = strings.TrimPrefix(raw, "V")

	var v Version
	core := raw
	if i := strings.IndexByte(core, '+'); i >= 0 {
		v.Build = core[i+1:]
		core = core[:i]
	}
	if i := strings.IndexByte(core, '-'); i >= 0 {
		v.Prerelease = core[i+1:]
		core = core[:i]
	}

	parts := strings.Split(core, ".")
	major, err := strconv.Atoi(parts[0])
	if err != nil || major < 0 {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}
	v.Major = major
	if len(parts) > 1 {
		v.Minor = component(parts[1])
	}
	if len(parts) > 2 {
		v.Patch = component(parts[2])
	}
	return v, nil
}

// MustParseVersion is like ParseVersion but panics on error.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func component(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// String formats the version as MAJOR.MINOR.PATCH with any prerelease and build
// suffixes.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	if v.Build != "" {
		s += "+" + v.Build
	}
	return s
}

// IsPrerelease reports whether the version carries a prerelease tag.
func (v Version) IsPrerelease() bool { return v.Prerelease != "" }

// compareCore orders versions lexicographically by (major, minor, patch).
func compareCore(a, b Version) int {
	switch {
	case a.Major != b.Major:
		return cmpInt(a.Major, b.Major)
	case a.Minor != b.Minor:
		return cmpInt(a.Minor, b.Minor)
	default:
		return cmpInt(a.Patch, b.Patch)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Compare returns -1, 0 or 1 ordering a and b. Versions with equal cores rank a
// release above a prerelease; two prereleases compare by tag string.
func Compare(a, b Version) int {
	if c := compareCore(a, b); c != 0 {
		return c
	}
	switch {
	case a.Prerelease == b.Prerelease:
		return 0
	case a.Prerelease == "":
		return 1
	case b.Prerelease == "":
		return -1
	}
	return strings.Compare(a.Prerelease, b.Prerelease)
}

// CompareStrings parses and compares two version strings. Unparseable strings
// sort below every parseable one.
func CompareStrings(a, b string) int {
	va, errA := ParseVersion(a)
	vb, errB := ParseVersion(b)
	switch {
	case errA != nil && errB != nil:
		return strings.Compare(a, b)
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}
	return Compare(va, vb)
}

// Sort orders versions from highest to lowest in place.
func Sort(versions []string) {
	slices.SortStableFunc(versions, func(a, b string) int {
		return CompareStrings(b, a)
	})
}

// IsNewer reports whether resolved is strictly greater than installed.
// It returns false when either string fails to parse.
func IsNewer(resolved, installed string) bool {
	r, err := ParseVersion(resolved)
	if err != nil {
		return false
	}
	i, err := ParseVersion(installed)
	if err != nil {
		return false
	}
	return Compare(r, i) > 0
}
