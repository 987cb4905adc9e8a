package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mrlokans/fintrack/internal/apiclient"
	"github.com/mrlokans/fintrack/internal/entities"
)

var (
	// ErrCredentialsRequired is returned before any request when email or password is blank.
	ErrCredentialsRequired = errors.New("email and password are required")
	// ErrNameRequired is returned by Register for a blank name.
	ErrNameRequired = errors.New("name is required")
)

// authResponse covers both observed login/register body shapes. Only the
// status matters to callers; the user record always comes from Me.
type authResponse struct {
	Message string         `json:"message,omitempty"`
	Token   string         `json:"token,omitempty"`
	User    *entities.User `json:"user,omitempty"`
}

// AuthService wraps the /auth endpoints.
type AuthService struct {
	client *apiclient.Client
}

func NewAuthService(client *apiclient.Client) *AuthService {
	return &AuthService{client: client}
}

// Register creates an account. The backend may or may not start a session.
func (s *AuthService) Register(ctx context.Context, creds entities.RegisterCredentials) error {
	creds.Name = strings.TrimSpace(creds.Name)
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Name == "" {
		return ErrNameRequired
	}
	if creds.Email == "" || creds.Password == "" {
		return ErrCredentialsRequired
	}

	var resp authResponse
	return s.client.Do(ctx, http.MethodPost, "/auth/register", creds, &resp)
}

// Login authenticates; the backend sets the session cookie on success.
func (s *AuthService) Login(ctx context.Context, creds entities.LoginCredentials) error {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return ErrCredentialsRequired
	}

	var resp authResponse
	return s.client.Do(ctx, http.MethodPost, "/auth/login", creds, &resp)
}

// Me returns the user owning the current session. A missing or expired
// session yields apiclient.ErrUnauthorized.
func (s *AuthService) Me(ctx context.Context) (*entities.User, error) {
	user, err := apiclient.Get[entities.User](ctx, s.client, "/auth/me")
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout asks the backend to invalidate the session cookie.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.client.Do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}
