// Package httputil holds the retry policy used around registry calls.
//
// Registry clients never retry on their own. They tag transient failures
// (network errors, 5xx and 429 responses) as [RetryableError] and leave the
// decision to the caller, typically the install orchestrator:
//
//	err := httputil.DefaultPolicy.Do(ctx, func() error {
//	    return reg.DownloadTarball(ctx, name, version, dest)
//	})
//
// Errors that are not retryable, such as a 404 or an authentication failure,
// end the loop at once.
package httputil
