package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrFeatureDisabled is returned when a provider was switched off by an admin.
	ErrFeatureDisabled = errors.New("provider disabled")

	// ErrNotConfigured is returned when a provider lacks credentials (no API key).
	ErrNotConfigured = errors.New("provider not configured")

	// ErrNotFound is returned when a single-entity lookup matched nothing.
	ErrNotFound = errors.New("not found")
)

// APIError represents a non-2xx HTTP response returned by the upstream API.
type APIError struct {
	StatusCode int
	Body       []byte
	Header     http.Header
	JSON       any
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, TruncateRunes(string(e.Body), 256, "…"))
}

// Is lets errors.Is(err, ErrNotFound) match upstream 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e != nil && e.StatusCode == http.StatusNotFound
}

// Retryable reports whether the status is a server-side failure.
func (e *APIError) Retryable() bool {
	return e != nil && e.StatusCode >= 500
}

// Reason extracts error.errors[0].reason from a Google-style error body, if any.
func (e *APIError) Reason() string {
	if e == nil || len(e.Body) == 0 {
		return ""
	}
	var env struct {
		Error struct {
			Errors []struct {
				Reason string `json:"reason"`
			} `json:"errors"`
		} `json:"error"`
	}
	if json.Unmarshal(e.Body, &env) != nil || len(env.Error.Errors) == 0 {
		return ""
	}
	return env.Error.Errors[0].Reason
}

// NetworkError is a transport-level failure: DNS, connection reset, abort or timeout.
type NetworkError struct {
	Op      string
	URL     string
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s %s: timeout: %v", e.Op, e.URL, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError reports invalid caller input. Raised before any network attempt.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DisabledError is returned by single-entity lookups when the feature gate blocks the call.
type DisabledError struct {
	Provider string
	State    GateState
}

func (e *DisabledError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Unwrap())
}

func (e *DisabledError) Unwrap() error {
	if e.State == GateNotConfigured {
		return ErrNotConfigured
	}
	return ErrFeatureDisabled
}

// NotFoundError is returned when the upstream answered but the entity does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
