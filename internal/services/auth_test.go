package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/fintrack/internal/apiclient"
	"github.com/mrlokans/fintrack/internal/entities"
)

func TestAuthService_LoginAndMe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"token":"x","user":{"id":1}}`)
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":1,"name":"Ann","email":"ann@example.com","password":"hash","createdAt":"2025-01-01T10:00:00.000Z","updatedAt":"2025-01-01T10:00:00.000Z"}`)
	})
	backend := newRecordingBackend(t, mux)
	svc := NewAuthService(backend.client())

	require.NoError(t, svc.Login(context.Background(), entities.LoginCredentials{Email: " ann@example.com ", Password: "pw"}))

	user, err := svc.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)
	assert.Equal(t, 2025, user.CreatedAt.Year())
}

func TestAuthService_Validation(t *testing.T) {
	svc := NewAuthService(apiclient.New("http://127.0.0.1:1"))

	assert.ErrorIs(t, svc.Login(context.Background(), entities.LoginCredentials{Email: "a@b.c"}), ErrCredentialsRequired)
	assert.ErrorIs(t, svc.Register(context.Background(), entities.RegisterCredentials{Email: "a@b.c", Password: "x"}), ErrNameRequired)
	assert.ErrorIs(t, svc.Register(context.Background(), entities.RegisterCredentials{Name: "A", Password: "x"}), ErrCredentialsRequired)
}

func TestAuthService_MeUnauthorized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"message":"No token"}`)
	})
	backend := newRecordingBackend(t, mux)

	user, err := NewAuthService(backend.client()).Me(context.Background())
	assert.Nil(t, user)
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
}
