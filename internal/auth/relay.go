package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// CredentialRelay is an http.CookieJar for one browser request. It offers the
// browser's credential cookie to the backend and copies the backend's
// Set-Cookie for that credential back onto the browser response, so the
// backend stays the only party that sets or clears the credential.
type CredentialRelay struct {
	mu      sync.Mutex
	backend *url.URL
	name    string
	current *http.Cookie
	w       http.ResponseWriter
	logger  *slog.Logger
}

// NewCredentialRelay binds the relay to a backend base URL, the incoming
// request (source of the credential) and its response writer.
func NewCredentialRelay(backendURL string, r *http.Request, w http.ResponseWriter, cookieName string, logger *slog.Logger) (*CredentialRelay, error) {
	u, err := url.Parse(backendURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid backend URL %q: missing host", backendURL)
	}

	relay := &CredentialRelay{
		backend: u,
		name:    cookieName,
		w:       w,
		logger:  logger,
	}
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		relay.current = &http.Cookie{Name: cookie.Name, Value: cookie.Value}
	}
	return relay, nil
}

// Cookies returns the credential for requests to the backend host only.
func (j *CredentialRelay) Cookies(u *url.URL) []*http.Cookie {
	if !strings.EqualFold(u.Host, j.backend.Host) {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.current == nil {
		return nil
	}
	return []*http.Cookie{{Name: j.current.Name, Value: j.current.Value}}
}

// SetCookies records the backend's credential cookie and relays it to the
// browser with the domain cleared and the path set to the site root.
// Pages call the backend from several goroutines, so the browser's header
// map is only written under mu.
func (j *CredentialRelay) SetCookies(u *url.URL, cookies []*http.Cookie) {
	if !strings.EqualFold(u.Host, j.backend.Host) {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, c := range cookies {
		if c.Name != j.name {
			if j.logger != nil {
				j.logger.Debug("ignoring backend cookie", "name", c.Name)
			}
			continue
		}

		if isExpiry(c) {
			j.current = nil
		} else {
			j.current = &http.Cookie{Name: c.Name, Value: c.Value}
		}

		relayed := *c
		relayed.Domain = ""
		relayed.Path = "/"
		relayed.Raw = ""
		relayed.Unparsed = nil
		http.SetCookie(j.w, &relayed)
	}
}

// Credential returns the credential value the relay currently holds.
func (j *CredentialRelay) Credential() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.current == nil {
		return ""
	}
	return j.current.Value
}

func isExpiry(c *http.Cookie) bool {
	if c.MaxAge < 0 || c.Value == "" {
		return true
	}
	return !c.Expires.IsZero() && c.Expires.Before(time.Now())
}

// ExpireCredential tells the browser to drop the credential cookie.
func ExpireCredential(w http.ResponseWriter, cookieName string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
}
