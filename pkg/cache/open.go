package cache

import (
	"context"
	"fmt"
	"time"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Options selects and configures a cache backend.
type Options struct {
	Backend    string        // file (default), memory, redis or none
	Dir        string        // file backend root
	RedisURL   string        // redis backend address
	Prefix     string        // redis key prefix
	MaxEntries int           // memory backend capacity
	MaxAge     time.Duration // memory backend cache-wide expiry
}

// Open builds the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("file cache requires a directory")
		}
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMemory:
		return NewMemoryCache(opts.MaxEntries, opts.MaxAge), nil
	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, ErrMissingRedisURL
		}
		c, err := NewRedisCache(ctx, opts.RedisURL, opts.Prefix)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone:
		return NewNullCache(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}
