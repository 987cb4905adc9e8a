package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	nethttp "net/http"

	"github.com/mrlokans/fintrack/internal/apiclient"
	"github.com/mrlokans/fintrack/internal/audit"
	"github.com/mrlokans/fintrack/internal/auth"
	"github.com/mrlokans/fintrack/internal/database"
	auditdb "github.com/mrlokans/fintrack/internal/database/audit"
	"github.com/mrlokans/fintrack/internal/database/reports"
	"github.com/mrlokans/fintrack/internal/http"
	"github.com/mrlokans/fintrack/internal/scheduler"
	"github.com/mrlokans/fintrack/internal/services"
	"github.com/mrlokans/fintrack/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// ReportStore implementations
var _ http.ReportStore = (*reports.Repository)(nil)

// ReportCleaner implementations
var _ tasks.ReportCleaner = (*reports.Repository)(nil)
var _ tasks.ReportCleaner = (*auditdb.Repository)(nil)
var _ tasks.ReportCleaner = tasks.Cleaners(nil)

// EventStore implementations
var _ audit.EventStore = (*auditdb.Repository)(nil)

// AuditRecorder implementations
var _ http.AuditRecorder = (*audit.Service)(nil)

// =============================================================================
// Backend Access
// =============================================================================

// The per-request credential relay is the API client's cookie jar.
var _ nethttp.CookieJar = (*auth.CredentialRelay)(nil)

var _ services.Authenticator = (*services.AuthService)(nil)
var _ services.CategoryReader = (*services.CategoryService)(nil)
var _ services.TransactionReader = (*services.TransactionService)(nil)

// =============================================================================
// Health
// =============================================================================

// Pinger implementations
var _ http.Pinger = (*database.Database)(nil)
var _ http.Pinger = (*apiclient.Client)(nil)
var _ http.Pinger = (*tasks.Client)(nil)

// =============================================================================
// Background Jobs
// =============================================================================

// ReportCleanupEnqueuer implementations
var _ scheduler.ReportCleanupEnqueuer = (*tasks.Client)(nil)
