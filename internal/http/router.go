package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/fintrack/internal/auth"
	"github.com/mrlokans/fintrack/internal/logging"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// The returned stop func releases background resources held by the auth
// pages and must be called on shutdown.
func NewRouter(cfg RouterConfig) (*gin.Engine, func()) {
	logger := logging.Component(cfg.Logger, logging.ComponentHTTP)
	guard := auth.NewGuard(cfg.Guard, cfg.Logger)
	guardCfg := guard.Config()

	router := gin.New()
	router.Use(RequestID())
	router.Use(RequestLogger(logger))
	router.Use(Metrics(guardCfg.LoginPath, guardCfg.DashboardPath))
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	router.Use(auth.StrictTransportSecurityMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	// Redirect before any backend call is made for the request
	router.Use(guard.Handler())
	router.Use(auth.NewBootstrap(cfg.API, guardCfg.CookieName, cfg.Logger).Handler())
	if cfg.Audit != nil {
		router.Use(AuditTrail(cfg.Audit, cfg.SessionManager, guardCfg))
	}

	if cfg.TemplatesPath != "" {
		tmpl, err := loadTemplates(cfg.TemplatesPath)
		if err != nil {
			logger.Error("failed to load templates", "path", cfg.TemplatesPath, "error", err)
		} else {
			router.SetHTMLTemplate(tmpl)
		}
	}
	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	// Health endpoints
	var backend Pinger
	if cfg.API != nil {
		backend = cfg.API
	}
	checks := []HealthCheck{
		{Name: "database", Pinger: cfg.Database, Critical: true},
		{Name: "backend", Pinger: backend},
	}
	if cfg.Tasks != nil {
		checks = append(checks, HealthCheck{Name: "tasks", Pinger: cfg.Tasks})
	}
	health := NewHealthController(cfg.Version, checks...)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)
	router.GET("/metrics", MetricsHandler())
	router.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	// Login, registration and logout
	authController := auth.NewAuthController(cfg.SessionManager, cfg.TemplatesPath, guardCfg, cfg.Auth, cfg.Logger)
	authController.RegisterRoutes(router)

	dashboard := NewDashboardController(guardCfg, cfg.SessionManager, logger)
	transactions := NewTransactionsController(guardCfg, cfg.SessionManager, logger)
	categories := NewCategoriesController(guardCfg, cfg.SessionManager, logger)
	ai := NewAIController(guardCfg, cfg.SessionManager, cfg.Reports, logger)

	// Protected pages
	pages := router.Group(guardCfg.DashboardPath)
	pages.GET("", dashboard.Page)

	pages.GET("/transactions", transactions.Page)
	pages.POST("/transactions", transactions.Create)
	pages.POST("/transactions/:id", transactions.Update)
	pages.POST("/transactions/:id/delete", transactions.Delete)

	pages.GET("/categories", categories.Page)
	pages.POST("/categories", categories.Create)
	pages.POST("/categories/:id", categories.Update)
	pages.POST("/categories/:id/delete", categories.Delete)

	pages.GET("/ai", ai.Page)
	pages.POST("/ai", ai.Generate)
	pages.GET("/ai/reports/:id", ai.Report)
	pages.GET("/ai/reports/:id/download", ai.DownloadReport)
	pages.POST("/ai/reports/:id/delete", ai.DeleteReport)

	if cfg.Audit != nil {
		activity := NewActivityController(guardCfg, cfg.SessionManager, cfg.Audit, logger)
		pages.GET("/activity", activity.Page)
	}

	return router, authController.Stop
}
