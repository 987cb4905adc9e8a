package auth

import (
	"net/http"
	"sync"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
)

// flashWriter commits the UI session right before the first header write,
// since a redirect or page body leaves no later chance to set the cookie.
type flashWriter struct {
	gin.ResponseWriter
	sm     *SessionManager
	req    *http.Request
	commit sync.Once
}

func (w *flashWriter) writeCookie() {
	w.commit.Do(func() {
		ctx := w.req.Context()
		switch w.sm.Status(ctx) {
		case scs.Modified:
			token, expiry, err := w.sm.Commit(ctx)
			if err != nil {
				return
			}
			w.sm.WriteSessionCookie(ctx, w.ResponseWriter, token, expiry)
		case scs.Destroyed:
			w.sm.WriteSessionCookie(ctx, w.ResponseWriter, "", time.Time{})
		}
	})
}

func (w *flashWriter) WriteHeader(code int) {
	w.writeCookie()
	w.ResponseWriter.WriteHeader(code)
}

func (w *flashWriter) WriteHeaderNow() {
	w.writeCookie()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *flashWriter) Write(b []byte) (int, error) {
	w.writeCookie()
	return w.ResponseWriter.Write(b)
}

func (w *flashWriter) WriteString(s string) (int, error) {
	w.writeCookie()
	return w.ResponseWriter.WriteString(s)
}

// SessionLoadSave is the gin equivalent of scs LoadAndSave. Flash helpers
// only work on requests that passed through it. A session that cannot be
// loaded is replaced by an empty one; losing a flash beats failing the page.
func (sm *SessionManager) SessionLoadSave() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if cookie, err := c.Request.Cookie(sm.Cookie.Name); err == nil {
			token = cookie.Value
		}

		ctx, err := sm.Load(c.Request.Context(), token)
		if err != nil {
			if ctx, err = sm.Load(c.Request.Context(), ""); err != nil {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
		}
		c.Request = c.Request.WithContext(ctx)

		w := &flashWriter{ResponseWriter: c.Writer, sm: sm, req: c.Request}
		c.Writer = w

		c.Next()

		// redirects without a body still need the cookie
		w.writeCookie()
	}
}
