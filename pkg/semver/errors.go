package semver

import "errors"

var (
	// ErrInvalidVersion is returned when a version string has no numeric major
	// component.
	ErrInvalidVersion = errors.New("invalid version")

	// ErrInvalidConstraint is returned when a range string cannot be parsed.
	ErrInvalidConstraint = errors.New("invalid constraint")
)
