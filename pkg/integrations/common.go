package integrations

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const httpTimeout = 30 * time.Second

// Response size limits.
const (
	MaxMetadataSize int64 = 10 << 20  // metadata, search and version lists
	MaxTransferSize int64 = 100 << 20 // tarball downloads and publish uploads
)

var (
	// ErrNotFound is returned when a package or resource doesn't exist in the registry.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrUnauthorized matches 401 responses.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden matches 403 responses.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict matches 409 responses, which registries use for "version
	// already exists" on publish.
	ErrConflict = errors.New("already exists")

	// ErrRateLimited matches 429 responses.
	ErrRateLimited = errors.New("rate limited")

	// ErrTooLarge is returned when a body exceeds its size limit.
	ErrTooLarge = errors.New("response too large")

	// ErrInvalidResponse is returned when a body cannot be decoded.
	ErrInvalidResponse = errors.New("invalid response")
)

// StatusError is a non-2xx HTTP response. It matches the sentinel errors of
// this package under errors.Is according to its status code.
type StatusError struct {
	StatusCode int
	Body       string // first bytes of the response body
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Is maps status codes to sentinels.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusGone
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrConflict:
		return e.StatusCode == http.StatusConflict
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	case ErrNetwork:
		return e.StatusCode >= 500
	}
	return false
}

// NewHTTPClient creates an HTTP client with a standard timeout for registry requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

var repoURLReplacer = strings.NewReplacer(
	"git@github.com:", "https://github.com/",
	"git://github.com/", "https://github.com/",
	"ssh://git@github.com/", "https://github.com/",
)

// NormalizeRepoURL converts various repository URL formats to canonical HTTPS form.
// Handles git@, git://, and git+ prefixes, and removes .git suffixes.
// Returns empty string if raw is empty.
func NormalizeRepoURL(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "git+")
	s = repoURLReplacer.Replace(s)
	return strings.TrimSuffix(s, ".git")
}

// EscapePackage escapes a package name for use as one URL path segment, so
// "@scope/name" becomes "@scope%2Fname".
func EscapePackage(name string) string { return url.PathEscape(name) }

// JoinURL appends path segments to base, which may or may not end in a slash.
func JoinURL(base string, segments ...string) string {
	return strings.TrimRight(base, "/") + "/" + strings.Join(segments, "/")
}
