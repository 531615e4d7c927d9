// Package apierr defines the error taxonomy for upstream provider calls.
//
// Fetch-step failures (UpstreamError, UpstreamHTTPError,
// MalformedResponseError) and narrative contract violations
// (EmptyResponseError, InvalidNarrativeError) are fatal to a pipeline run.
// Delivery failures are not represented here; the Telegram sender logs and
// swallows them.
package apierr

import "fmt"

// UpstreamError wraps a transport-level failure (network error, timeout)
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// UpstreamHTTPError reports a non-2xx status from a provider
type UpstreamHTTPError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamHTTPError) Error() string {
	return fmt.Sprintf("%s returned HTTP %d", e.Provider, e.StatusCode)
}

// MalformedResponseError reports a response of unexpected shape or content
type MalformedResponseError struct {
	Provider string
	Reason   string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s malformed response: %s", e.Provider, e.Reason)
}

// EmptyResponseError reports a completion response with no usable content
type EmptyResponseError struct {
	Provider string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("%s returned empty content", e.Provider)
}

// InvalidNarrativeError reports a narrative that violates the output contract
type InvalidNarrativeError struct {
	Reason string
	Err    error
}

func (e *InvalidNarrativeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid narrative: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid narrative: %s", e.Reason)
}

func (e *InvalidNarrativeError) Unwrap() error {
	return e.Err
}
