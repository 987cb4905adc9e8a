package auth

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/fintrack/internal/apiclient"
	"github.com/mrlokans/fintrack/internal/config"
	"github.com/mrlokans/fintrack/internal/logging"
)

const testUserJSON = `{"id":1,"name":"Ann","email":"ann@example.com"}`

// fakeBackend accepts one email/password pair and issues the "token" cookie.
type fakeBackend struct {
	*httptest.Server

	mu          sync.Mutex
	requests    []string
	noAutoLogin bool
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	fb.Server = httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(fb.Close)
	return fb
}

func (fb *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	fb.requests = append(fb.requests, r.Method+" "+r.URL.Path)
	noAutoLogin := fb.noAutoLogin
	fb.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/auth/login":
		if !strings.Contains(readBody(r), `"password":"secret"`) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "valid", Path: "/", HttpOnly: true})
		_, _ = w.Write([]byte(`{"user":` + testUserJSON + `}`))
	case "/auth/register":
		if !noAutoLogin {
			http.SetCookie(w, &http.Cookie{Name: "token", Value: "valid", Path: "/", HttpOnly: true})
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"User registered","user":` + testUserJSON + `}`))
	case "/auth/me":
		if c, err := r.Cookie("token"); err != nil || c.Value != "valid" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Not authenticated"}`))
			return
		}
		_, _ = w.Write([]byte(testUserJSON))
	case "/auth/logout":
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "", Path: "/", MaxAge: -1})
		_, _ = w.Write([]byte(`{"message":"Logged out"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (fb *fakeBackend) Requests() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.requests...)
}

func readBody(r *http.Request) string {
	b, _ := io.ReadAll(r.Body)
	return string(b)
}

// newTestRouter wires guard, bootstrap and the auth pages the way the
// application router does, minus CSRF and the UI session.
func newTestRouter(t *testing.T, backendURL string) (*gin.Engine, *AuthController) {
	t.Helper()
	api := apiclient.New(backendURL)
	guard := NewGuard(config.Guard{}, logging.Discard())

	router := gin.New()
	router.Use(guard.Handler())
	router.Use(NewBootstrap(api, guard.Config().CookieName, logging.Discard()).Handler())

	ac := NewAuthController(nil, "", guard.Config(), config.Auth{MaxLoginAttempts: 3}, logging.Discard())
	t.Cleanup(ac.Stop)
	ac.RegisterRoutes(router)
	return router, ac
}

func postForm(router http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func get(router http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
