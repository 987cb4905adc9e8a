package apiclient

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned for any 401 answer from the backend.
var ErrUnauthorized = errors.New("unauthorized")

// NetworkErrorMessage is shown to users when the backend cannot be reached.
const NetworkErrorMessage = "Unable to connect to server. Please check your network connection."

// APIError is a non-2xx, non-401 answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP error! status: %d", e.Status)
}

// NetworkError wraps a transport failure: dial, DNS, connection reset or timeout.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return NetworkErrorMessage
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether err is or wraps a *NetworkError.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// StatusOf returns the HTTP status carried by err, or 0 when it has none.
func StatusOf(err error) int {
	if errors.Is(err, ErrUnauthorized) {
		return 401
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
