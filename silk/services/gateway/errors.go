package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured means the gateway API key is missing; no network
	// call was attempted.
	ErrNotConfigured = errors.New("AI gateway key is not configured")

	// ErrRateLimited mirrors an upstream 429.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrQuotaExceeded mirrors an upstream 402.
	ErrQuotaExceeded = errors.New("payment required")
)

// UpstreamError carries any other non-success gateway status. The body is
// kept for logging, never shown to the end user verbatim.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("AI gateway returned status %d", e.Status)
}
