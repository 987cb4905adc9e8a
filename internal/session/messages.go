package session

import (
	"errors"

	"github.com/mrlokans/fintrack/internal/apiclient"
	"github.com/mrlokans/fintrack/internal/services"
)

// User-facing failure messages.
const (
	MessageInvalidCredentials  = "Invalid email or password"
	MessageLoginFailed         = "Login failed"
	MessageRegistrationFailed  = "Registration failed"
	MessageCredentialsRequired = "Email and password are required"
	MessageNameRequired        = "Name is required"
)

// failureMessage turns an action error into the text stored in State.Error.
// It never returns an empty string.
func failureMessage(err error, fallback string) string {
	var apiErr *apiclient.APIError
	switch {
	case errors.Is(err, services.ErrCredentialsRequired):
		return MessageCredentialsRequired
	case errors.Is(err, services.ErrNameRequired):
		return MessageNameRequired
	case errors.Is(err, apiclient.ErrUnauthorized):
		return MessageInvalidCredentials
	case apiclient.IsNetworkError(err):
		return apiclient.NetworkErrorMessage
	case errors.As(err, &apiErr):
		return apiErr.Error()
	default:
		return fallback
	}
}
