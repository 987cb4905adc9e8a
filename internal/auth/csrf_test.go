package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCSRFSecret = []byte("test-secret-key-32-bytes-long!!!")

func csrfRouter(handled *bool) *gin.Engine {
	router := gin.New()
	router.Use(CSRFMiddleware(testCSRFSecret, false))
	router.GET("/form", func(c *gin.Context) {
		c.String(http.StatusOK, GetCSRFToken(c))
	})
	router.POST("/form", func(c *gin.Context) {
		*handled = true
		c.Status(http.StatusOK)
	})
	return router
}

func TestCSRFMiddleware_GETSetsToken(t *testing.T) {
	var handled bool
	rr := get(csrfRouter(&handled), "/form")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Body.String())
}

func TestCSRFMiddleware_BlocksPOSTWithoutToken(t *testing.T) {
	var handled bool
	rr := postForm(csrfRouter(&handled), "/form", url.Values{"amount": {"10"}})

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.False(t, handled, "handler must not run after a failed check")
	assert.Contains(t, rr.Body.String(), "Session Expired")
}

func TestCSRFMiddleware_AcceptsValidToken(t *testing.T) {
	var handled bool
	router := csrfRouter(&handled)

	first := get(router, "/form")
	require.Equal(t, http.StatusOK, first.Code)
	token := first.Body.String()
	cookies := first.Result().Cookies()
	require.NotEmpty(t, cookies)

	rr := postForm(router, "/form", url.Values{CSRFFormField: {token}}, cookies...)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, handled)
}

func TestCSRFErrorHandler_JSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/transactions", nil)
	req.Header.Set("Accept", "application/json")
	rr := httptest.NewRecorder()

	csrfErrorHandler(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.JSONEq(t, `{"error":"CSRF token invalid or missing"}`, rr.Body.String())
}

func TestCSRFErrorHandler_RedirectsToLocalReferer(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("Referer", "http://example.com/login")
	rr := httptest.NewRecorder()

	csrfErrorHandler(rr, req)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Header().Get("Location"), "/login?error="))
}

func TestCSRFErrorHandler_IgnoresForeignReferer(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("Referer", "https://evil.example.net/login")
	rr := httptest.NewRecorder()

	csrfErrorHandler(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestGetCSRFToken_NoToken(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, GetCSRFToken(c))
}

func TestSanitizeRedirectPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/dashboard", "/dashboard"},
		{"/dashboard/transactions?type=income", "/dashboard/transactions?type=income"},
		{"", "/login"},
		{"dashboard", "/login"},
		{"//evil.com", "/login"},
		{"/\\evil.com", "/login"},
		{"https://evil.com/x", "/login"},
		{"/redirect?to=http://evil.com", "/login"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeRedirectPath(tt.in, "/login"))
		})
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := get(router, "/")

	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	csp := rr.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "frame-ancestors 'none'")
	assert.Contains(t, csp, "form-action 'self' https://example.com")
}

func TestStrictTransportSecurityMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(StrictTransportSecurityMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	plain := get(router, "/")
	assert.Empty(t, plain.Header().Get("Strict-Transport-Security"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Contains(t, rr.Header().Get("Strict-Transport-Security"), "max-age=31536000")
}
