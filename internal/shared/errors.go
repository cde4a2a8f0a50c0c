package shared

import (
	"errors"
	"fmt"
	"net"
	"net/url"
)

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// Remote service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrQuotaExceeded      = fmt.Errorf("quota exceeded")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrVideoUnavailable   = fmt.Errorf("video unavailable")

	// Local state errors
	ErrCacheCorrupt    = fmt.Errorf("cache file corrupt")
	ErrNotResolved     = fmt.Errorf("track not resolved")
	ErrInvalidDocument = fmt.Errorf("invalid playlist document")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// APIError carries the service's structured error payload for failures that
// do not map to a narrower sentinel.
type APIError struct {
	StatusCode int
	Reason     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("API error %d (%s): %s", e.StatusCode, e.Reason, e.Message)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// Is lets callers match any APIError against the ErrAPIRequest sentinel.
func (e *APIError) Is(target error) bool {
	return target == ErrAPIRequest
}

// Transient reports whether the failure is worth retrying. Server-side 5xx
// responses are transient; every 4xx is a fact about the request.
func (e *APIError) Transient() bool {
	return e.StatusCode >= 500
}

// IsRetryable classifies an error for the retry policy. Quota exhaustion is
// never retryable regardless of how the service reported it.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrQuotaExceeded) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	return false
}
