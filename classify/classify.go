/*
Package classify maps backend failures to consistent, user-presentable copy.

PURPOSE:
  The inventory backend reports failures as duck-typed JSON envelopes whose
  detail strings change shape between endpoints. This package is the single
  place that knows those shapes, so presentation surfaces never branch on
  raw backend strings.

CLASSIFICATION ORDER:
  1. Not an HTTP error (no response received) -> fixed connection message
  2. Status 429                               -> rate-limit warning
  3. Status >= 500                            -> fixed server-fault message
  4. Ordered pattern table over the detail    -> specific template
  5. Raw detail / err.Error() / generic copy  -> fallback chain

  Steps 1-3 never consult the pattern table.

SUBSTITUTION:
  Matched templates contain {key} placeholders filled from the envelope's
  context fields. A placeholder with no value stays literal in the output;
  that keeps missing backend fields visible instead of silently blanking
  them.

GUARANTEES:
  Classify is a pure function: no I/O, no retries, never panics, and every
  input (including nil bodies) produces a displayable result.

SEE ALSO:
  - patterns.go: The ordered pattern table
  - template.go: Placeholder substitution
  - apiclient/errors.go: The HTTPError implementation fed to Classify
*/
package classify

import (
	"errors"
	"net/http"
	"strings"
)

// Fixed copy for the branches that skip pattern matching.
const (
	connectionMessage = "Couldn't reach the inventory service. Check your connection and try again."
	serverMessage     = "Something went wrong on our end. Please try again in a moment."
	fallbackMessage   = "We couldn't complete your request. Please try again."

	rateLimitTemplate = "You're sending requests too quickly. Try again in {retry_after} seconds."
	defaultRetryAfter = "60"
)

// Classify converts any error from a backend call into display-ready copy.
// Errors that don't carry an HTTP response (DNS failures, timeouts,
// cancelled contexts) get the fixed connection message.
func Classify(err error) ClassifiedError {
	var httpErr HTTPError
	if !errors.As(err, &httpErr) {
		return ClassifiedError{Severity: SeverityError, Message: connectionMessage}
	}

	status := httpErr.HTTPStatus()
	body := httpErr.ErrorBody()

	if status == http.StatusTooManyRequests {
		ctx := map[string]string{"retry_after": defaultRetryAfter}
		if v, ok := body["retry_after"]; ok {
			ctx["retry_after"] = formatValue(v)
		}
		return ClassifiedError{
			Severity: SeverityWarning,
			Message:  expand(rateLimitTemplate, ctx),
			Context:  ctx,
		}
	}

	if status >= http.StatusInternalServerError {
		return ClassifiedError{Severity: SeverityError, Message: serverMessage}
	}

	detail := extractDetail(body)
	ctx := buildContext(body)

	for _, p := range patterns {
		captured, ok := p.match(detail)
		if !ok {
			continue
		}
		// Backend-supplied context fields win over values captured out of
		// the detail text.
		merged := make(map[string]string, len(captured)+len(ctx))
		for k, v := range captured {
			merged[k] = v
		}
		for k, v := range ctx {
			merged[k] = v
		}
		severity := SeverityError
		if strings.Contains(strings.ToLower(detail), "concurrent") {
			severity = SeverityWarning
		}
		return ClassifiedError{
			Severity: severity,
			Message:  expand(p.template, merged),
			Context:  merged,
		}
	}

	// No template matched: fall back to the most specific text we have.
	if detail != "" {
		return ClassifiedError{Severity: SeverityError, Message: detail, Context: ctx}
	}
	if msg := err.Error(); msg != "" {
		return ClassifiedError{Severity: SeverityError, Message: msg}
	}
	return ClassifiedError{Severity: SeverityError, Message: fallbackMessage}
}

// extractDetail pulls the human-readable detail out of the envelope.
// The backend sends either a plain string or an object whose "message"
// field carries the text.
func extractDetail(body map[string]any) string {
	switch d := body["detail"].(type) {
	case string:
		return d
	case map[string]any:
		if msg, ok := d["message"].(string); ok {
			return msg
		}
	}
	return ""
}

// buildContext collects every field of the envelope except "detail" itself,
// plus any fields nested inside an object-valued detail. Values are
// stringified for template substitution.
func buildContext(body map[string]any) map[string]string {
	if len(body) == 0 {
		return nil
	}
	ctx := make(map[string]string, len(body))
	for k, v := range body {
		if k == "detail" {
			continue
		}
		ctx[k] = formatValue(v)
	}
	if nested, ok := body["detail"].(map[string]any); ok {
		for k, v := range nested {
			ctx[k] = formatValue(v)
		}
	}
	if len(ctx) == 0 {
		return nil
	}
	return ctx
}
