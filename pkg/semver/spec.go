package semver

import "strings"

// specPrefixes are the non-range forms a dependency value may take.
var specPrefixes = []string{"github:", "https://github.com/", "git+", "workspace:"}

// IsValidSpec reports whether s is an acceptable dependency version value.
//
// The check is syntactic only: s must be one of the tags "latest", "*" or
// "next", start with a range sigil or a digit, or use one of the github:,
// https://github.com/, git+ or workspace: forms. The empty string is rejected.
func IsValidSpec(s string) bool {
	switch s {
	case "":
		return false
	case "latest", "*", "next":
		return true
	}
	switch c := s[0]; {
	case c == '^', c == '~', c == '>', c == '<', c == '=':
		return true
	case c >= '0' && c <= '9':
		return true
	}
	for _, p := range specPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// IsTag reports whether s names a dist-tag rather than a range, e.g. "latest"
// or "next". Tags are resolved by the registry, not by constraint matching.
func IsTag(s string) bool {
	switch {
	case s == "latest", s == "next":
		return true
	case s == "" || IsValidSpec(s):
		return false
	}
	c := s[0]
	return (c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') && isIdent(s)
}

func isIdent(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
