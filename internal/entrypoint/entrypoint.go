package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/fintrack/internal/apiclient"
	"github.com/mrlokans/fintrack/internal/audit"
	"github.com/mrlokans/fintrack/internal/auth"
	"github.com/mrlokans/fintrack/internal/config"
	"github.com/mrlokans/fintrack/internal/database"
	auditdb "github.com/mrlokans/fintrack/internal/database/audit"
	"github.com/mrlokans/fintrack/internal/database/reports"
	http_controllers "github.com/mrlokans/fintrack/internal/http"
	"github.com/mrlokans/fintrack/internal/logging"
	"github.com/mrlokans/fintrack/internal/scheduler"
	"github.com/mrlokans/fintrack/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts down within
// the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, logger *slog.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
		close(listenErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-listenErr:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case sig := <-quit:
		logger.Info("shutting down server", "signal", sig.String(), "timeout", timeout)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the server so no task outlives the database
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server exiting")
	return nil
}

// Run wires the application together and serves it.
func Run(cfg *config.Config, version string) error {
	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	slog.SetDefault(logger)
	appLogger := logging.Component(logger, logging.ComponentApp)

	appLogger.Info("starting fintrack", "version", version, "api_url", cfg.API.BaseURL)

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewDatabase(cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("error closing database", "error", err)
		}
	}()

	reportRepo := reports.NewRepository(db.DB)
	auditRepo := auditdb.NewRepository(db.DB)
	auditService := audit.NewService(auditRepo, logger)

	sqlDB, err := db.SQL()
	if err != nil {
		return fmt.Errorf("failed to get SQL DB for sessions: %w", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize session manager: %w", err)
	}

	if cfg.Auth.SessionSecret == "" {
		appLogger.Warn("AUTH_SESSION_SECRET is not set, generated a CSRF key for this run only")
	}
	csrfKey, err := auth.CSRFKey(cfg.Auth.SessionSecret)
	if err != nil {
		return fmt.Errorf("failed to derive CSRF key: %w", err)
	}

	// Task queue and the report cleanup schedule feeding it
	var taskClient *tasks.Client
	var cleanupScheduler *scheduler.ReportCleanupScheduler
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				appLogger.Error("error closing task client", "error", err)
			}
		}()

		// saved reports and the activity log share one retention
		taskClient.Register(tasks.NewCleanupReportsQueue(tasks.Cleaners{reportRepo, auditRepo}, logger))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		taskClient.Start(taskCtx)

		cleanupScheduler = scheduler.NewReportCleanupScheduler(taskClient, cfg.Reports.CleanupSchedule, cfg.Reports.RetentionDays, logger)
		if err := cleanupScheduler.Start(taskCtx); err != nil {
			appLogger.Error("failed to start report cleanup scheduler", "error", err)
		}
	} else {
		appLogger.Info("task queue disabled, old AI reports will not be cleaned up")
	}

	api := apiclient.New(cfg.API.BaseURL,
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithLogger(logger),
	)

	routerCfg := http_controllers.RouterConfig{
		API:            api,
		Guard:          cfg.Guard,
		Auth:           cfg.Auth,
		Database:       db,
		Reports:        reportRepo,
		Audit:          auditService,
		SessionManager: sessionManager,
		CSRFSecret:     csrfKey,
		SecureCookies:  cfg.Auth.SecureCookies,
		TemplatesPath:  cfg.UI.TemplatesPath,
		StaticPath:     cfg.UI.StaticPath,
		Version:        version,
		Logger:         logger,
	}
	if taskClient != nil {
		routerCfg.Tasks = taskClient
	}
	router, stopRouter := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		stopRouter()
		if cleanupScheduler != nil {
			cleanupScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		auditService.Wait()
	}

	return Serve(router, cfg, appLogger, onShutdown)
}
