package registry

import (
	"errors"

	perrors "github.com/home-lang/pantry-sub014/pkg/errors"
	"github.com/home-lang/pantry-sub014/pkg/integrations"
)

func spec(name, version string) string {
	if version == "" {
		return name
	}
	return name + "@" + version
}

// NotFound reports a failed metadata lookup. Any non-2xx response counts as
// not found; transport failures are reported as network errors instead.
func NotFound(origin, name, version string, cause error) error {
	var se *integrations.StatusError
	if cause != nil && !errors.As(cause, &se) && errors.Is(cause, integrations.ErrNetwork) {
		return perrors.Wrap(perrors.ErrCodeNetwork, cause, "%s: fetch %s", origin, spec(name, version))
	}
	return perrors.Wrap(perrors.ErrCodePackageNotFound, classify(cause), "%s: package %s not found", origin, spec(name, version))
}

// DownloadFailed reports a failed tarball transfer.
func DownloadFailed(origin, name, version string, cause error) error {
	return perrors.Wrap(perrors.ErrCodeDownloadFailed, classify(cause), "%s: download %s", origin, spec(name, version))
}

// PublishFailed reports a failed upload.
func PublishFailed(origin, name, version string, cause error) error {
	return perrors.Wrap(perrors.ErrCodePublishFailed, classify(cause), "%s: publish %s", origin, spec(name, version))
}

// Unsupported reports an operation a backend cannot perform.
func Unsupported(origin, op string) error {
	return perrors.New(perrors.ErrCodeUnsupported, "%s: %s is not supported", origin, op)
}

// Recoverable reports whether err is a not-found or transport failure, the
// two kinds a fallback registry absorbs.
func Recoverable(err error) bool {
	return perrors.Is(err, perrors.ErrCodePackageNotFound) ||
		errors.Is(err, integrations.ErrNotFound) ||
		errors.Is(err, integrations.ErrNetwork)
}

var statusCodes = []struct {
	target error
	code   perrors.Code
	msg    string
}{
	{integrations.ErrUnauthorized, perrors.ErrCodeUnauthorized, "unauthorized"},
	{integrations.ErrForbidden, perrors.ErrCodeForbidden, "forbidden"},
	{integrations.ErrConflict, perrors.ErrCodeAlreadyExists, "version already exists"},
	{integrations.ErrRateLimited, perrors.ErrCodeRateLimited, "rate limited"},
	{integrations.ErrTooLarge, perrors.ErrCodeTooLarge, "body too large"},
	{integrations.ErrIntegrityMismatch, perrors.ErrCodeIntegrityMismatch, "integrity check failed"},
	{integrations.ErrNetwork, perrors.ErrCodeNetwork, "network failure"},
}

// classify wraps an HTTP failure with the error code its status implies.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, s := range statusCodes {
		if errors.Is(err, s.target) {
			return perrors.Wrap(s.code, err, "%s", s.msg)
		}
	}
	return err
}
