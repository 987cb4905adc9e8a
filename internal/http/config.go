package http

import (
	"log/slog"

	"github.com/mrlokans/fintrack/internal/apiclient"
	"github.com/mrlokans/fintrack/internal/auth"
	"github.com/mrlokans/fintrack/internal/config"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Finance backend client shared by every request; each request binds
	// its own cookie jar on top of it.
	API *apiclient.Client

	// Route protection and auth pages
	Guard config.Guard
	Auth  config.Auth

	// Local persistence (optional)
	Database Pinger
	Reports  ReportStore
	Audit    AuditRecorder

	// Background queue database, reported by /health when set
	Tasks Pinger

	// UI session for flash messages (optional)
	SessionManager *auth.SessionManager

	// CSRF protection; disabled when empty
	CSRFSecret    []byte
	SecureCookies bool

	// UI paths
	TemplatesPath string
	StaticPath    string

	// Application info
	Version string

	Logger *slog.Logger
}
