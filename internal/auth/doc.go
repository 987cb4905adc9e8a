// Package auth decides who may see which page and keeps the browser's
// backend credential flowing between the browser and the finance backend.
//
// The credential is an opaque cookie (default name "token") issued and
// cleared by the backend. This package never parses it.
//
// # Request pipeline
//
//	router.Use(auth.CSRFMiddleware(secret, cfg.Auth.SecureCookies))
//	router.Use(sessionManager.SessionLoadSave())   // flash messages
//	router.Use(auth.NewGuard(cfg.Guard, logger).Handler())
//	router.Use(auth.NewBootstrap(apiClient, cfg.Guard.CookieName, logger).Handler())
//
// The Guard redirects on cookie presence alone:
//
//	/dashboard/... without credential  -> 302 /login
//	/login or /register with credential -> 302 /dashboard
//
// Bootstrap then builds a session.Store for the request whose API client
// relays the credential through a CredentialRelay cookie jar, and on GET/HEAD
// page loads waits for FetchProfile before the handler renders.
//
// Handlers reach the store with:
//
//	store := auth.CurrentStore(c)
//	svc := auth.CurrentServices(c)
package auth
