package upstream

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to callers. Auth-endpoint failures map to distinct
// sentinels so forms can render a localized message instead of redirecting.
var (
	// ErrSessionExpired means the access token was rejected and could not be
	// refreshed (or no refresh token existed). Both token cookies have already
	// been cleared when this is returned; the caller owns the login redirect.
	ErrSessionExpired = errors.New("upstream: session expired")

	ErrInvalidCredentials = errors.New("upstream: invalid credentials")
	ErrInactiveAccount    = errors.New("upstream: account is inactive")
	ErrWrongCode          = errors.New("upstream: wrong verification code")
	ErrTooManyAttempts    = errors.New("upstream: too many attempts")
	ErrNotFound           = errors.New("upstream: not found")
)

// HTTPError is a non-2xx backend response passed through unmodified.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("upstream: backend returned %d: %s", e.Status, e.Body)
}

// StatusOf extracts the HTTP status from err, or 0 if err is not an HTTPError.
func StatusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	return 0
}
