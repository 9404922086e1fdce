package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is an HTTP client for the coaching API. All authenticated calls
// carry an `Authorization: Token <token>` header; the token itself comes from
// the phone-verification exchange and lives in the session store.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New creates a client for the given API base URL.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// do issues one JSON request. A non-empty token is attached as a Token
// authorization header. Non-2xx responses are decoded by decodeError into
// typed errors; transport failures pass through wrapped.
func (client *Client) do(ctx context.Context, method string, path string, token string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Accept", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Token "+token)
	}

	response, err := client.HTTP.Do(request)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return decodeError(response.StatusCode, responseBody)
	}

	if out == nil || len(responseBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(responseBody, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// decodeError turns a non-2xx response into a typed error. A body shaped
// `{"error": "..."}` becomes an *APIError; any other flat object of string
// values is a field-level validation rejection. Everything else falls back to
// a status-only *APIError.
func decodeError(statusCode int, body []byte) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("status %d: %w", statusCode, ErrUnauthorized)
	case http.StatusNotFound:
		return fmt.Errorf("status %d: %w", statusCode, ErrNotFound)
	}

	var generic struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &generic); err == nil && strings.TrimSpace(generic.Error) != "" {
		return &APIError{StatusCode: statusCode, Message: generic.Error}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err == nil && len(raw) > 0 {
		fieldErrors := FieldErrors{}
		for field, rawValue := range raw {
			fieldErrors[field] = flattenErrorValue(rawValue)
		}
		return fieldErrors
	}

	return &APIError{StatusCode: statusCode}
}

// flattenErrorValue renders one field's rejection as display text. The API
// answers either a plain string or a list of strings per field.
func flattenErrorValue(rawValue json.RawMessage) string {
	var single string
	if err := json.Unmarshal(rawValue, &single); err == nil {
		return single
	}

	var many []string
	if err := json.Unmarshal(rawValue, &many); err == nil && len(many) > 0 {
		return strings.Join(many, " ")
	}

	return strings.Trim(string(rawValue), `"`)
}
