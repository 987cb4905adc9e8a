package config

const (
	// DefaultDatabasePath is the local database holding UI sessions and AI report history
	DefaultDatabasePath = "./fintrack.db"

	// DefaultAPIURL is the finance backend used when API_URL is not set
	DefaultAPIURL = "http://localhost:5000/api"

	// DefaultSessionCookieName is the backend-issued credential cookie
	DefaultSessionCookieName = "token"
)
