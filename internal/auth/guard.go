package auth

import (
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/fintrack/internal/config"
	"github.com/mrlokans/fintrack/internal/logging"
)

// Decision is the route guard's verdict for one request.
type Decision int

const (
	// Pass lets the request through unmodified.
	Pass Decision = iota
	// RedirectToLogin sends a visitor without a credential to the login page.
	RedirectToLogin
	// RedirectToDashboard sends a signed-in visitor away from the auth pages.
	RedirectToDashboard
)

func (d Decision) String() string {
	switch d {
	case RedirectToLogin:
		return "redirect_login"
	case RedirectToDashboard:
		return "redirect_dashboard"
	default:
		return "pass"
	}
}

// Guard admits or redirects requests based only on whether the credential
// cookie is present. It never validates the credential; an expired cookie
// passes and is caught when the backend rejects a data request.
type Guard struct {
	cfg    config.Guard
	logger *slog.Logger
}

// NewGuard creates a guard, filling empty paths with the defaults.
func NewGuard(cfg config.Guard, logger *slog.Logger) *Guard {
	if cfg.CookieName == "" {
		cfg.CookieName = config.DefaultSessionCookieName
	}
	if len(cfg.ProtectedPrefixes) == 0 {
		cfg.ProtectedPrefixes = []string{"/dashboard"}
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.RegisterPath == "" {
		cfg.RegisterPath = "/register"
	}
	if cfg.DashboardPath == "" {
		cfg.DashboardPath = "/dashboard"
	}
	return &Guard{
		cfg:    cfg,
		logger: logging.Component(logger, logging.ComponentHTTP),
	}
}

// Config returns the effective guard configuration.
func (g *Guard) Config() config.Guard {
	return g.cfg
}

// Decide is the pure routing rule:
//
//	protected path, no credential   -> RedirectToLogin
//	login/register, credential set  -> RedirectToDashboard
//	anything else                   -> Pass
func (g *Guard) Decide(requestPath string, hasCredential bool) Decision {
	p := cleanPath(requestPath)
	switch {
	case !hasCredential && g.isProtected(p):
		return RedirectToLogin
	case hasCredential && g.isAuthPage(p):
		return RedirectToDashboard
	default:
		return Pass
	}
}

// Handler returns the gin middleware applying Decide to every request.
func (g *Guard) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqPath := c.Request.URL.Path
		decision := g.Decide(reqPath, HasCredential(c.Request, g.cfg.CookieName))

		switch decision {
		case RedirectToLogin:
			g.logger.Debug("guard redirect", "path", reqPath, "to", g.cfg.LoginPath)
			c.Redirect(http.StatusFound, g.cfg.LoginPath)
			c.Abort()
		case RedirectToDashboard:
			g.logger.Debug("guard redirect", "path", reqPath, "to", g.cfg.DashboardPath)
			c.Redirect(http.StatusFound, g.cfg.DashboardPath)
			c.Abort()
		default:
			c.Next()
		}
	}
}

func (g *Guard) isProtected(p string) bool {
	for _, prefix := range g.cfg.ProtectedPrefixes {
		if hasPathPrefix(p, cleanPath(prefix)) {
			return true
		}
	}
	return false
}

func (g *Guard) isAuthPage(p string) bool {
	return p == cleanPath(g.cfg.LoginPath) || p == cleanPath(g.cfg.RegisterPath)
}

// hasPathPrefix matches whole segments: /dashboard matches /dashboard and
// /dashboard/ai but not /dashboards.
func hasPathPrefix(p, prefix string) bool {
	if prefix == "/" {
		return true
	}
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// HasCredential reports whether r carries a non-empty cookie called name.
func HasCredential(r *http.Request, name string) bool {
	cookie, err := r.Cookie(name)
	return err == nil && cookie.Value != ""
}
