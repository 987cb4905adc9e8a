package auth

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/fintrack/internal/apiclient"
	"github.com/mrlokans/fintrack/internal/config"
	"github.com/mrlokans/fintrack/internal/entities"
	"github.com/mrlokans/fintrack/internal/logging"
	"github.com/mrlokans/fintrack/internal/session"
)

// Notices carried across the register/logout redirects.
const (
	FlashAccountCreated = "Account created, please sign in"
	FlashLoggedOut      = "You have been signed out"
)

const (
	messageTooManyAttempts  = "Too many login attempts. Please try again later."
	messagePasswordMismatch = "Passwords do not match"
)

// AuthController serves the login, registration and logout pages. Every
// action goes through the request's session store.
type AuthController struct {
	sessions    *SessionManager
	templates   *template.Template
	guard       config.Guard
	rateLimiter *RateLimiter
	logger      *slog.Logger
}

// NewAuthController parses templates/auth/*.html. Without templates the
// pages fall back to JSON, which is what the handler tests use.
func NewAuthController(sessions *SessionManager, templatesPath string, guard config.Guard, cfg config.Auth, logger *slog.Logger) *AuthController {
	var tmpl *template.Template
	if templatesPath != "" {
		parsed, err := template.ParseGlob(filepath.Join(templatesPath, "auth", "*.html"))
		if err == nil {
			tmpl = parsed
		}
	}

	return &AuthController{
		sessions:  sessions,
		templates: tmpl,
		guard:     NewGuard(guard, logger).Config(),
		rateLimiter: NewRateLimiter(RateLimitConfig{
			MaxAttempts:     cfg.MaxLoginAttempts,
			WindowDuration:  cfg.RateLimitWindow,
			LockoutDuration: cfg.LockoutDuration,
		}),
		logger: logging.Component(logger, logging.ComponentHTTP),
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *AuthController) RegisterRoutes(router gin.IRoutes) {
	router.GET("/", ac.Root)
	router.GET(ac.guard.LoginPath, ac.LoginPage)
	router.POST(ac.guard.LoginPath, ac.Login)
	router.GET(ac.guard.RegisterPath, ac.RegisterPage)
	router.POST(ac.guard.RegisterPath, ac.Register)
	router.POST("/logout", ac.Logout)
}

// Stop cleans up resources (rate limiter background goroutine).
func (ac *AuthController) Stop() {
	ac.rateLimiter.Stop()
}

// Root sends visitors to the dashboard or the login page.
func (ac *AuthController) Root(c *gin.Context) {
	if IsAuthenticated(c) {
		c.Redirect(http.StatusFound, ac.guard.DashboardPath)
		return
	}
	c.Redirect(http.StatusFound, ac.guard.LoginPath)
}

// LoginPage renders the login form.
func (ac *AuthController) LoginPage(c *gin.Context) {
	if IsAuthenticated(c) {
		c.Redirect(http.StatusFound, ac.guard.DashboardPath)
		return
	}
	ac.render(c, http.StatusOK, "login.html", gin.H{
		"Title": "Sign in",
		"Error": c.Query("error"),
	})
}

// Login handles the login form submission.
func (ac *AuthController) Login(c *gin.Context) {
	creds := entities.LoginCredentials{
		Email:    strings.TrimSpace(c.PostForm("email")),
		Password: c.PostForm("password"),
	}
	clientIP := c.ClientIP()

	if allowed, retryAfter := ac.rateLimiter.Allow(clientIP, creds.Email); !allowed {
		c.Header("Retry-After", retryAfter.String())
		ac.render(c, http.StatusTooManyRequests, "login.html", gin.H{
			"Title":      "Sign in",
			"Email":      creds.Email,
			"Error":      messageTooManyAttempts,
			"RetryAfter": retryAfter.String(),
		})
		return
	}

	store := CurrentStore(c)
	if store == nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	if err := store.Login(c.Request.Context(), creds); err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			if locked, _ := ac.rateLimiter.RecordFailure(clientIP, creds.Email); locked {
				ac.logger.Warn("login locked out", "ip", clientIP)
			}
		}
		ac.render(c, http.StatusOK, "login.html", gin.H{
			"Title": "Sign in",
			"Email": creds.Email,
			"Error": store.Snapshot().Error,
		})
		return
	}

	ac.rateLimiter.RecordSuccess(clientIP, creds.Email)
	c.Redirect(http.StatusFound, ac.guard.DashboardPath)
}

// RegisterPage renders the registration form.
func (ac *AuthController) RegisterPage(c *gin.Context) {
	if IsAuthenticated(c) {
		c.Redirect(http.StatusFound, ac.guard.DashboardPath)
		return
	}
	ac.render(c, http.StatusOK, "register.html", gin.H{
		"Title": "Create account",
		"Error": c.Query("error"),
	})
}

// Register handles the registration form submission.
func (ac *AuthController) Register(c *gin.Context) {
	creds := entities.RegisterCredentials{
		Name:     strings.TrimSpace(c.PostForm("name")),
		Email:    strings.TrimSpace(c.PostForm("email")),
		Password: c.PostForm("password"),
	}
	form := gin.H{
		"Title": "Create account",
		"Name":  creds.Name,
		"Email": creds.Email,
	}

	if confirm, ok := c.GetPostForm("confirm_password"); ok && confirm != creds.Password {
		form["Error"] = messagePasswordMismatch
		ac.render(c, http.StatusOK, "register.html", form)
		return
	}

	store := CurrentStore(c)
	if store == nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	err := store.Register(c.Request.Context(), creds)
	switch {
	case errors.Is(err, session.ErrLoginRequired):
		ac.flash(c, FlashAccountCreated)
		c.Redirect(http.StatusFound, ac.guard.LoginPath)
	case err != nil:
		form["Error"] = store.Snapshot().Error
		ac.render(c, http.StatusOK, "register.html", form)
	default:
		c.Redirect(http.StatusFound, ac.guard.DashboardPath)
	}
}

// Logout ends the session. Local state and the browser credential are
// dropped even when the backend cannot be reached.
func (ac *AuthController) Logout(c *gin.Context) {
	if store := CurrentStore(c); store != nil {
		store.Logout(c.Request.Context())
	}
	ExpireCredential(c.Writer, ac.guard.CookieName)
	ac.flash(c, FlashLoggedOut)
	c.Redirect(http.StatusFound, ac.guard.LoginPath)
}

func (ac *AuthController) flash(c *gin.Context, message string) {
	if ac.sessions != nil {
		ac.sessions.Flash(c.Request.Context(), message)
	}
}

// render renders an auth template or falls back to JSON.
func (ac *AuthController) render(c *gin.Context, status int, name string, data gin.H) {
	data["CSRFToken"] = GetCSRFToken(c)
	data["CSRFField"] = CSRFFormField
	data["LoginPath"] = ac.guard.LoginPath
	data["RegisterPath"] = ac.guard.RegisterPath
	if ac.sessions != nil {
		notice, errMsg := ac.sessions.PopFlash(c.Request.Context())
		data["Flash"] = notice
		if data["Error"] == nil || data["Error"] == "" {
			data["Error"] = errMsg
		}
	}

	if ac.templates == nil {
		c.JSON(status, data)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := ac.templates.ExecuteTemplate(c.Writer, name, data); err != nil {
		ac.logger.Error("failed to render template", "template", name, "error", err)
	}
}
