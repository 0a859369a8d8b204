package cache

import "errors"

var (
	// ErrUnknownBackend is returned by Open for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")

	// ErrMissingRedisURL is returned by Open when the redis backend has no URL.
	ErrMissingRedisURL = errors.New("redis cache requires a URL")
)
