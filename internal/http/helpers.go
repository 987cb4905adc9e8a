package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/fintrack/internal/apiclient"
	"github.com/mrlokans/fintrack/internal/auth"
	"github.com/mrlokans/fintrack/internal/config"
	"github.com/mrlokans/fintrack/internal/entities"
	"github.com/mrlokans/fintrack/internal/services"
)

// --- Parameter Parsing ---

// parseOptionalID parses a form or query value; blank or invalid input is 0.
func parseOptionalID(value string) uint {
	id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

// --- Page Support ---

const (
	messageUnexpected = "Something went wrong. Please try again."
	messageInvalidID  = "Invalid id"
)

// pageBase carries what every protected page controller needs to render,
// flash and react to an expired session.
type pageBase struct {
	guard    config.Guard
	sessions *auth.SessionManager
	logger   *slog.Logger
}

// sessionExpired handles ErrUnauthorized from a backend call. The guard only
// checks cookie presence, so a stale cookie reaches the page and is caught
// here: the store is reset, the credential is expired in the browser and the
// user is sent to the login page. Returns true when the response is written.
func (p pageBase) sessionExpired(c *gin.Context, err error) bool {
	if !errors.Is(err, apiclient.ErrUnauthorized) {
		return false
	}
	if store := auth.CurrentStore(c); store != nil {
		store.Reset()
	}
	auth.ExpireCredential(c.Writer, p.guard.CookieName)
	p.logger.Info("backend rejected credential, redirecting to login", "path", c.Request.URL.Path)
	c.Redirect(http.StatusFound, p.guard.LoginPath)
	c.Abort()
	return true
}

// currentUser returns the signed-in user. POST requests are not
// bootstrapped, so the profile is fetched here when missing. On false the
// response has been written; a nil user with true means no session.
func (p pageBase) currentUser(c *gin.Context) (*entities.User, bool) {
	if user := auth.CurrentUser(c); user != nil {
		return user, true
	}
	store := auth.CurrentStore(c)
	if store == nil {
		return nil, true
	}
	if err := store.FetchProfile(c.Request.Context()); err != nil {
		if p.sessionExpired(c, err) {
			return nil, false
		}
		return nil, true
	}
	return auth.CurrentUser(c), true
}

// idParam parses a positive :id path parameter. An invalid id is flashed
// and the browser sent back to fallback; on false the response is written.
func (p pageBase) idParam(c *gin.Context, fallback string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		p.flashError(c, messageInvalidID)
		c.Redirect(http.StatusSeeOther, fallback)
		c.Abort()
		return 0, false
	}
	return uint(id), true
}

// flash stores a notice for the next page.
func (p pageBase) flash(c *gin.Context, message string) {
	if p.sessions != nil {
		p.sessions.Flash(c.Request.Context(), message)
	}
}

// flashError stores an error notice for the next page.
func (p pageBase) flashError(c *gin.Context, message string) {
	if p.sessions != nil {
		p.sessions.FlashError(c.Request.Context(), message)
	}
}

// render executes a page template with the common layout data merged in.
func (p pageBase) render(c *gin.Context, status int, name string, data gin.H) {
	for k, v := range pageData(c, p.sessions) {
		if _, set := data[k]; !set || (k == "Error" && data[k] == "") {
			data[k] = v
		}
	}
	data["DashboardPath"] = p.guard.DashboardPath
	c.HTML(status, name, data)
}

// userMessage turns a service or transport error into text for an inline
// form error.
func userMessage(err error) string {
	var apiErr *apiclient.APIError
	switch {
	case errors.Is(err, services.ErrCategoryExists):
		return services.CategoryExistsMessage
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidTransactionType),
		errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrCategoryRequired),
		errors.Is(err, services.ErrCategoryNameRequired),
		errors.Is(err, services.ErrInvalidCategoryType),
		errors.Is(err, services.ErrInvalidPeriod),
		errors.Is(err, services.ErrSuggestionsFailed):
		return capitalize(rootCause(err).Error())
	case apiclient.IsNetworkError(err):
		return apiclient.NetworkErrorMessage
	case errors.As(err, &apiErr):
		return apiErr.Error()
	default:
		return messageUnexpected
	}
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
