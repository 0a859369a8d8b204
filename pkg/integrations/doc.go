// Package integrations provides the HTTP plumbing and API clients that
// registry backends are built on.
//
// # Shared Client
//
// [Client] wraps net/http with what every registry call needs:
//
//   - default headers and a credential hook ([Options].Authorize)
//   - body limits: [MaxMetadataSize] for JSON, [MaxTransferSize] for tarballs
//   - status mapping: non-2xx responses become [*StatusError], which matches
//     [ErrNotFound], [ErrUnauthorized], [ErrForbidden], [ErrConflict],
//     [ErrRateLimited] or [ErrNetwork] under errors.Is
//   - observability hooks and an OpenTelemetry client span per request
//
// The client never retries. Transport failures, 429s and 5xx responses are
// wrapped in [httputil.RetryableError] so the caller can decide.
//
// # API Clients
//
//   - [npm]: the npm registry document API (packuments, dist-tags, search)
//   - [github]: repositories, tags and tarballs from the GitHub REST API
//
// # Integrity
//
// [ParseIntegrity] reads SRI strings ("sha512-...") and hex shasums so
// downloads can be checked as they stream.
//
// [npm]: github.com/home-lang/pantry-sub014/pkg/integrations/npm
// [github]: github.com/home-lang/pantry-sub014/pkg/integrations/github
// [httputil.RetryableError]: github.com/home-lang/pantry-sub014/pkg/httputil.RetryableError
package integrations
