package nextcloud

import (
	"fmt"

	"noracloud/servicenextcloud/internal/domain"
)

// TransportError reports a request that never produced an HTTP response:
// dial and TLS failures, timeouts and context cancellation.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("nextcloud: %s %s: request failed: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AuthError reports credentials rejected by the server, either as HTTP 401
// or as OCS status 997 inside the response body.
type AuthError struct {
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("nextcloud: unauthorized (status %d)", e.StatusCode)
}

// Is matches domain.ErrUnauthorized.
func (e *AuthError) Is(target error) bool {
	return target == domain.ErrUnauthorized
}

// APIError reports any other non-success response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("nextcloud: api call failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("nextcloud: api call failed with status %d: %s", e.StatusCode, e.Message)
}
