package provider

import (
	"errors"
	"fmt"
)

// The upstream client classifies every non-200 response into exactly one
// of these. Downstream code matches on the variant and never re-parses
// error bodies.
var (
	// ErrQuotaExceeded means the active credential's call budget is spent.
	// The only recovery is rotating to another credential.
	ErrQuotaExceeded = errors.New("upstream quota exceeded")

	// ErrAuthFailed means the active credential is invalid, expired or the
	// project is not configured for the API. Not retryable.
	ErrAuthFailed = errors.New("upstream credential rejected")
)

// UpstreamError carries a non-quota, non-auth upstream failure. Temporary
// errors (5xx, network) are retried by the client before surfacing; by the
// time a caller sees one, retries are already exhausted.
type UpstreamError struct {
	StatusCode int
	Reason     string
	Message    string
	Temporary  bool
}

func (e *UpstreamError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("upstream error (status=%d, reason=%s): %s", e.StatusCode, e.Reason, e.Message)
	}
	return fmt.Sprintf("upstream error (status=%d): %s", e.StatusCode, e.Message)
}
