package auth

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/fintrack/internal/config"
)

// Session data keys
const (
	SessionKeyFlash      = "flash"
	SessionKeyFlashError = "flash_error"
)

// UISessionCookieName names the cookie of the local UI session. It only
// carries flash messages; the backend credential lives in its own cookie.
const UISessionCookieName = "fintrack_ui"

// sessionsSchema is the table layout sqlite3store reads and writes.
const sessionsSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	token TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	expiry REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`

const sessionSweepInterval = 10 * time.Minute

// SessionManager wraps scs.SessionManager with flash message helpers.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a session manager persisting to sqlDB.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
	if _, err := sqlDB.Exec(sessionsSchema); err != nil {
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}

	sm := scs.New()
	sm.Store = sqlite3store.NewWithCleanupInterval(sqlDB, sessionSweepInterval)
	sm.Lifetime = cfg.SessionLifetime
	sm.IdleTimeout = cfg.SessionLifetime / 2

	sm.Cookie.Name = UISessionCookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// Flash stores a one-time notice shown on the next rendered page.
func (sm *SessionManager) Flash(ctx context.Context, message string) {
	sm.Put(ctx, SessionKeyFlash, message)
}

// FlashError stores a one-time error notice.
func (sm *SessionManager) FlashError(ctx context.Context, message string) {
	sm.Put(ctx, SessionKeyFlashError, message)
}

// PopFlash returns and clears the pending notice and error.
func (sm *SessionManager) PopFlash(ctx context.Context) (notice, errMsg string) {
	return sm.PopString(ctx, SessionKeyFlash), sm.PopString(ctx, SessionKeyFlashError)
}
