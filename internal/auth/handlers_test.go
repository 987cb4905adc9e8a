package auth

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeForm(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var data map[string]any
	require.NoError(t, json.Unmarshal(body, &data))
	return data
}

func TestLogin_ValidCredentials(t *testing.T) {
	backend := newFakeBackend(t)
	router, _ := newTestRouter(t, backend.URL)

	rr := postForm(router, "/login", url.Values{"email": {"ann@example.com"}, "password": {"secret"}})

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))
	token := findCookie(rr, "token")
	require.NotNil(t, token)
	assert.Equal(t, "valid", token.Value)
	assert.Equal(t, []string{"POST /auth/login", "GET /auth/me"}, backend.Requests())
}

func TestLogin_InvalidCredentialsRendersInlineError(t *testing.T) {
	backend := newFakeBackend(t)
	router, _ := newTestRouter(t, backend.URL)

	rr := postForm(router, "/login", url.Values{"email": {"ann@example.com"}, "password": {"wrong"}})

	assert.Equal(t, http.StatusOK, rr.Code)
	data := decodeForm(t, rr.Body.Bytes())
	assert.Equal(t, "Invalid email or password", data["Error"])
	assert.Equal(t, "ann@example.com", data["Email"])
	assert.Nil(t, findCookie(rr, "token"))
}

func TestLogin_RateLimited(t *testing.T) {
	backend := newFakeBackend(t)
	router, _ := newTestRouter(t, backend.URL)
	form := url.Values{"email": {"ann@example.com"}, "password": {"wrong"}}

	for i := 0; i < 3; i++ {
		postForm(router, "/login", form)
	}
	rr := postForm(router, "/login", form)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))
	assert.Len(t, backend.Requests(), 3)
}

func TestLoginPage_WithCredentialRedirects(t *testing.T) {
	backend := newFakeBackend(t)
	router, _ := newTestRouter(t, backend.URL)

	rr := get(router, "/login", &http.Cookie{Name: "token", Value: "valid"})

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))
	assert.Empty(t, backend.Requests())
}

func TestLoginPage_Anonymous(t *testing.T) {
	backend := newFakeBackend(t)
	router, _ := newTestRouter(t, backend.URL)

	rr := get(router, "/login")

	assert.Equal(t, http.StatusOK, rr.Code)
	data := decodeForm(t, rr.Body.Bytes())
	assert.Equal(t, "Sign in", data["Title"])
	assert.Equal(t, "", data["Error"])
}

func TestRoot(t *testing.T) {
	backend := newFakeBackend(t)
	router, _ := newTestRouter(t, backend.URL)

	rr := get(router, "/")
	assert.Equal(t, "/login", rr.Header().Get("Location"))

	rr = get(router, "/", &http.Cookie{Name: "token", Value: "valid"})
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))
}

func TestRegister_AutoLogin(t *testing.T) {
	backend := newFakeBackend(t)
	router, _ := newTestRouter(t, backend.URL)

	rr := postForm(router, "/register", url.Values{
		"name": {"Ann"}, "email": {"ann@example.com"}, "password": {"secret"}, "confirm_password": {"secret"},
	})

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))
	assert.Equal(t, []string{"POST /auth/register", "GET /auth/me"}, backend.Requests())
}

func TestRegister_WithoutSessionSendsToLogin(t *testing.T) {
	backend := newFakeBackend(t)
	backend.noAutoLogin = true
	router, _ := newTestRouter(t, backend.URL)

	rr := postForm(router, "/register", url.Values{
		"name": {"Ann"}, "email": {"ann@example.com"}, "password": {"secret"},
	})

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
}

func TestRegister_PasswordMismatch(t *testing.T) {
	backend := newFakeBackend(t)
	router, _ := newTestRouter(t, backend.URL)

	rr := postForm(router, "/register", url.Values{
		"name": {"Ann"}, "email": {"ann@example.com"}, "password": {"secret"}, "confirm_password": {"other"},
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Passwords do not match", decodeForm(t, rr.Body.Bytes())["Error"])
	assert.Empty(t, backend.Requests())
}

func TestLogout_ClearsCredentialEvenWhenBackendDown(t *testing.T) {
	backend := newFakeBackend(t)
	router, _ := newTestRouter(t, backend.URL)
	backend.Close()

	rr := postForm(router, "/logout", url.Values{}, &http.Cookie{Name: "token", Value: "valid"})

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
	token := findCookie(rr, "token")
	require.NotNil(t, token)
	assert.Equal(t, -1, token.MaxAge)
}
