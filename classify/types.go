package classify

// =============================================================================
// CORE TYPES
// =============================================================================

// Severity controls how a message is presented: warnings are transient
// conditions the user can wait out, errors need a different action.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ClassifiedError is the display-ready result of classifying a failure.
// Message is final copy: placeholders have been substituted where the
// context provided a value, and left literal where it did not.
type ClassifiedError struct {
	Severity Severity          `json:"severity"`
	Message  string            `json:"message"`
	Context  map[string]string `json:"context,omitempty"`
}

// HTTPError is implemented by transport errors that carry an HTTP status
// and a decoded response body. Keeping this as an interface means the
// classifier never imports the transport layer; any error satisfying it
// (via errors.As) is eligible for pattern matching.
type HTTPError interface {
	error

	// HTTPStatus returns the response status code.
	HTTPStatus() int

	// ErrorBody returns the decoded error payload. Backend bodies are
	// duck-typed JSON, so this is a plain key/value bag. May be nil.
	ErrorBody() map[string]any
}
