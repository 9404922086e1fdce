package backend

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for common HTTP error classes.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// FieldErrors is a validation rejection from the API: a field name to
// message mapping decoded from a non-2xx response body. The wizard relays
// these onto its own per-field error surface.
type FieldErrors map[string]string

func (fieldErrors FieldErrors) Error() string {
	if len(fieldErrors) == 0 {
		return "request rejected"
	}

	fields := make([]string, 0, len(fieldErrors))
	for field := range fieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+fieldErrors[field])
	}
	return "request rejected: " + strings.Join(parts, "; ")
}

// APIError is a non-field failure from the API, carrying the server's error
// text when the body held one.
type APIError struct {
	StatusCode int
	Message    string
}

func (apiError *APIError) Error() string {
	if strings.TrimSpace(apiError.Message) == "" {
		return fmt.Sprintf("api error: status %d", apiError.StatusCode)
	}
	return apiError.Message
}

// AsFieldErrors unwraps a FieldErrors rejection if err carries one.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fieldErrors FieldErrors
	if errors.As(err, &fieldErrors) {
		return fieldErrors, true
	}
	return nil, false
}

// AsAPIError unwraps an *APIError if err carries one.
func AsAPIError(err error) (*APIError, bool) {
	var apiError *APIError
	if errors.As(err, &apiError) {
		return apiError, true
	}
	return nil, false
}
