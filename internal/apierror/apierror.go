// Package apierror provides the error envelopes returned by the API.
// Handlers never put raw internal errors (DB, Redis, stack traces) in these.
package apierror

// APIError is the envelope for 4xx/5xx responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError carries one message per offending field, keyed by its
// JSON path (e.g. "rows[2].productId").
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Fields: fields}
}
