package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		API
		Guard
		Global
		Database
		UI
		Tasks
		Auth
		Reports
		Log
	}

	HTTP struct {
		Port int32
		Host string
	}
	// API points at the finance backend this client talks to.
	API struct {
		BaseURL string
		Timeout time.Duration
	}
	// Guard holds the route-protection rules.
	Guard struct {
		CookieName        string
		ProtectedPrefixes []string
		LoginPath         string
		RegisterPath      string
		DashboardPath     string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	UI struct {
		TemplatesPath string
		StaticPath    string
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Auth struct {
		SessionSecret   string
		SessionLifetime time.Duration
		SecureCookies   bool // Set to false for local dev without HTTPS

		// Rate limiting configuration
		MaxLoginAttempts int           // Max failed attempts before lockout (default: 5)
		RateLimitWindow  time.Duration // Time window for counting attempts (default: 15m)
		LockoutDuration  time.Duration // How long to lock out (default: 30m)
	}
	Reports struct {
		RetentionDays   int
		CleanupSchedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Log struct {
		Level  string
		Format string // "text" or "json"
	}
)

// splitList turns a comma separated env value into a trimmed slice.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NewConfig reads configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment variables win.
func NewConfig() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("templates_path", "./templates")
	v.SetDefault("static_path", "./static")

	// Backend API defaults
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("api_timeout", "15s")

	// Route guard defaults
	v.SetDefault("session_cookie_name", DefaultSessionCookieName)
	v.SetDefault("guard_protected_prefixes", "/dashboard")
	v.SetDefault("guard_login_path", "/login")
	v.SetDefault("guard_register_path", "/register")
	v.SetDefault("guard_dashboard_path", "/dashboard")

	// Auth defaults
	v.SetDefault("auth_session_secret", "")       // Auto-generated if empty
	v.SetDefault("auth_session_lifetime", "24h")  // 24 hours
	v.SetDefault("auth_secure_cookies", true)     // HTTPS-only cookies
	v.SetDefault("auth_max_login_attempts", 5)    // Max failed attempts
	v.SetDefault("auth_rate_limit_window", "15m") // Window for counting attempts
	v.SetDefault("auth_lockout_duration", "30m")  // Lockout duration

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	// AI report history
	v.SetDefault("reports_retention_days", 90)
	v.SetDefault("reports_cleanup_schedule", "0 3 * * *")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		API: API{
			BaseURL: strings.TrimRight(v.GetString("API_URL"), "/"),
			Timeout: v.GetDuration("API_TIMEOUT"),
		},
		Guard: Guard{
			CookieName:        v.GetString("SESSION_COOKIE_NAME"),
			ProtectedPrefixes: splitList(v.GetString("GUARD_PROTECTED_PREFIXES")),
			LoginPath:         v.GetString("GUARD_LOGIN_PATH"),
			RegisterPath:      v.GetString("GUARD_REGISTER_PATH"),
			DashboardPath:     v.GetString("GUARD_DASHBOARD_PATH"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Auth: Auth{
			SessionSecret:    v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime:  v.GetDuration("AUTH_SESSION_LIFETIME"),
			SecureCookies:    v.GetBool("AUTH_SECURE_COOKIES"),
			MaxLoginAttempts: v.GetInt("AUTH_MAX_LOGIN_ATTEMPTS"),
			RateLimitWindow:  v.GetDuration("AUTH_RATE_LIMIT_WINDOW"),
			LockoutDuration:  v.GetDuration("AUTH_LOCKOUT_DURATION"),
		},
		Reports: Reports{
			RetentionDays:   v.GetInt("REPORTS_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("REPORTS_CLEANUP_SCHEDULE"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}
