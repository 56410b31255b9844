package registrar

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the registrar client.
var (
	// ErrNoWallet is returned when an authenticated operation is attempted
	// without a configured signing key.
	ErrNoWallet = errors.New("no wallet configured: set NAMEFORGE_WALLET_PRIVATE_KEY to enable authenticated operations")

	// ErrAuthenticationFailed indicates the challenge-response flow did not
	// produce a session token.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrJobFailed indicates a provisioning job reached the failed state.
	ErrJobFailed = errors.New("domain provisioning failed")

	// ErrJobPollTimeout indicates a job did not reach a terminal state
	// within the polling budget. The job itself may still complete.
	ErrJobPollTimeout = errors.New("timed out waiting for job")
)

// errRefreshFailed is recovered internally by falling back to the full
// authentication flow; callers never see it.
var errRefreshFailed = errors.New("token refresh failed")

// APIError represents a non-2xx response from the registrar API.
type APIError struct {
	StatusCode int
	Body       []byte
}

// Error implements the error interface
func (e *APIError) Error() string {
	if msg := firstString(e.Fields(), "message", "error", "detail"); msg != "" {
		return fmt.Sprintf("registrar API error: status %d: %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("registrar API error: status %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Fields decodes the response body as a generic JSON object. Non-JSON
// bodies yield an empty map.
func (e *APIError) Fields() map[string]any {
	var fields map[string]any
	if err := json.Unmarshal(e.Body, &fields); err != nil {
		return map[string]any{}
	}
	return fields
}

// IsRateLimited checks if the error indicates a 429 response.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsPaymentRequired checks if the error indicates a 402 response.
func (e *APIError) IsPaymentRequired() bool {
	return e.StatusCode == http.StatusPaymentRequired
}

// firstString applies an ordered list of key lookups to a generic JSON
// object and returns the first non-empty string value.
func firstString(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := fields[key].(string); ok && value != "" {
			return value
		}
	}
	return ""
}
