package apiclient

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// API ERROR - Typed representation of a non-2xx backend response
// =============================================================================

// APIError is returned for any response with a 4xx/5xx status. Body holds
// the decoded error payload as an untyped bag: backend envelopes carry
// arbitrary extra fields (retry_after, available, requested, sku_code, ...)
// that downstream classification substitutes into display copy, so nothing
// is dropped at decode time.
//
// Network-level failures are NOT APIErrors; they surface as ordinary
// wrapped errors from the transport.
type APIError struct {
	Status int
	Body   map[string]any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("inventory api: unexpected status %d", e.Status)
}

// HTTPStatus returns the response status code.
func (e *APIError) HTTPStatus() int { return e.Status }

// ErrorBody returns the decoded error payload. May be nil when the
// response body was empty or not JSON.
func (e *APIError) ErrorBody() map[string]any { return e.Body }

// newAPIError decodes a failed response body. The backend uses two envelope
// conventions interchangeably: a flat object {"detail": ..., ...} and a
// wrapped one {"error": {"detail": ..., ...}}. The wrapper is peeled off so
// callers always see the inner object.
func newAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{Status: status}
	if len(raw) == 0 {
		return apiErr
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		// Not JSON (proxy error page, truncated body). Status alone still
		// classifies; the text is kept for operators under a known key.
		apiErr.Body = map[string]any{"raw": string(raw)}
		return apiErr
	}

	if inner, ok := body["error"].(map[string]any); ok {
		body = inner
	}
	apiErr.Body = body
	return apiErr
}
