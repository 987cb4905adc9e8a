// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Backend Access
//
//   - http.CookieJar: auth.CredentialRelay carries the browser's token cookie
//     to the finance backend and back for a single request
//   - Authenticator: register, login, profile and logout (internal/services/interfaces.go)
//   - CategoryReader, TransactionReader: read side of the finance data
//     (internal/services/interfaces.go)
//
// ## Data Access Interfaces
//
//   - ReportStore: saved AI suggestions per user (internal/http/ai.go)
//   - ReportCleaner: retention cleanup of saved reports and the activity log
//     (internal/tasks/cleanup_reports.go)
//   - EventStore: persisted audit events (internal/audit/service.go)
//   - AuditRecorder: what the router needs from the audit service (internal/http/audit.go)
//
// ## Health
//
//   - Pinger: reachability of the database and the backend (internal/http/health.go)
//
// ## Background Jobs
//
//   - ReportCleanupEnqueuer: the cron scheduler hands cleanup work to the task
//     queue (internal/scheduler/report_cleanup.go)
//
// # Compile-Time Checks
//
// checks.go asserts that every concrete type satisfies the interfaces above.
// Adding a method to an interface without implementing it fails the build here.
package interfaces
