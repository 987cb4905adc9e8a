package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/fintrack/internal/apiclient"
	"github.com/mrlokans/fintrack/internal/logging"
	"github.com/mrlokans/fintrack/internal/services"
	"github.com/mrlokans/fintrack/internal/session"
)

// Paths that never trigger a profile fetch.
var bootstrapSkipPrefixes = []string{"/static", "/health", "/ping", "/metrics", "/favicon.ico"}

// Bootstrap gives every request its own session store bound to the browser's
// credential and, on full page loads, restores the session before the handler
// runs. The handler only starts once FetchProfile has settled.
type Bootstrap struct {
	api        *apiclient.Client
	cookieName string
	logger     *slog.Logger
}

// NewBootstrap creates the bootstrap middleware over a shared API client.
func NewBootstrap(api *apiclient.Client, cookieName string, logger *slog.Logger) *Bootstrap {
	return &Bootstrap{
		api:        api,
		cookieName: cookieName,
		logger:     logging.Component(logger, logging.ComponentSession),
	}
}

// Handler returns the gin middleware.
func (b *Bootstrap) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if skipBootstrap(c.Request.URL.Path) {
			c.Next()
			return
		}

		relay, err := NewCredentialRelay(b.api.BaseURL(), c.Request, c.Writer, b.cookieName, b.logger)
		if err != nil {
			b.logger.Error("failed to create credential relay", "error", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		svc := services.New(b.api.WithJar(relay))
		store := session.NewStore(svc.Auth, b.logger)
		c.Set(ContextKeyStore, store)
		c.Set(ContextKeyServices, svc)
		c.Set(ContextKeyRelay, relay)

		if b.logger.Enabled(c.Request.Context(), slog.LevelDebug) {
			reqPath := c.Request.URL.Path
			unsubscribe := store.Subscribe(func(s session.State) {
				b.logger.Debug("session transition", "path", reqPath, "status", s.Status())
			})
			defer unsubscribe()
		}

		if isPageLoad(c.Request) {
			b.restore(c.Request.Context(), store)
		}

		c.Next()
	}
}

// restore runs the one-shot profile fetch. Its outcome never alters the
// response; a missing session is the normal anonymous case.
func (b *Bootstrap) restore(ctx context.Context, store *session.Store) {
	if err := store.FetchProfile(ctx); err != nil {
		b.logger.Debug("no active session", "error", err)
	}
}

func isPageLoad(r *http.Request) bool {
	return r.Method == http.MethodGet || r.Method == http.MethodHead
}

func skipBootstrap(p string) bool {
	for _, prefix := range bootstrapSkipPrefixes {
		if hasPathPrefix(p, prefix) {
			return true
		}
	}
	return false
}
