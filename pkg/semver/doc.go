// Package semver parses versions and evaluates the range syntax used in
// package manifests.
//
// A [Constraint] is a single comparator: exact, caret (^), tilde (~), one of the
// ordering operators (>=, <=, >, <) or "any" (*, latest, empty). Only the major,
// minor and patch components take part in satisfaction.
//
//	c, _ := semver.ParseConstraint("^1.2.3")
//	c.Satisfies(semver.MustParseVersion("1.9.0")) // true
//	c.Satisfies(semver.MustParseVersion("2.0.0")) // false
//
// A [Range] composes constraints the way npm does: whitespace separated
// comparators must all hold, "||" separates alternatives, "a - b" is an
// inclusive span and "1.x" or "1.2.*" are wildcard ranges. A range containing a
// single comparator behaves exactly like the corresponding [Constraint].
//
// [IsValidSpec] is the cheap syntactic gate applied to catalog and override
// entries before they are stored.
package semver
