package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/fintrack/internal/logging"
)

const dsnParams = "?_journal=WAL&_timeout=5000&_busy_timeout=5000"

// Client runs the background queue. Tasks live in their own sqlite file so
// queue churn never locks the report and session tables.
type Client struct {
	backlite *backlite.Client
	db       *sql.DB
	path     string
	workers  int
	logger   *slog.Logger

	running atomic.Bool
}

// DBPath derives the queue database from the main one:
// "data/fintrack.db" becomes "data/fintrack-tasks.db".
func DBPath(mainDBPath string) string {
	ext := filepath.Ext(mainDBPath)
	return strings.TrimSuffix(mainDBPath, ext) + "-tasks" + ext
}

// NewClient opens the queue database next to mainDBPath and installs the
// backlite schema.
func NewClient(mainDBPath string, cfg Config, logger *slog.Logger) (*Client, error) {
	cfg = cfg.withDefaults()
	path := DBPath(mainDBPath)
	logger = logging.Component(logger, logging.ComponentTasks)

	db, err := sql.Open("sqlite3", path+dsnParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}
	// workers plus enqueuers from request goroutines
	db.SetMaxOpenConns(cfg.Workers + 5)
	db.SetMaxIdleConns(cfg.Workers + 2)
	db.SetConnMaxLifetime(time.Hour)

	bl, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          logger,
	})
	if err == nil {
		err = bl.Install()
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set up task queue at %s: %w", path, err)
	}

	logger.Debug("task queue ready", "path", path)
	return &Client{backlite: bl, db: db, path: path, workers: cfg.Workers, logger: logger}, nil
}

// Register adds task queues. Call it before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.backlite.Register(q)
	}
}

// Start launches the workers without blocking. Extra calls are ignored.
func (c *Client) Start(ctx context.Context) {
	if !c.running.CompareAndSwap(false, true) {
		return
	}
	c.logger.Info("task queue started", "workers", c.workers)
	c.backlite.Start(ctx)
}

// Stop waits for running tasks until ctx expires. It reports whether every
// worker finished in time; a client that never started stops cleanly.
func (c *Client) Stop(ctx context.Context) bool {
	if !c.running.CompareAndSwap(true, false) {
		return true
	}
	if !c.backlite.Stop(ctx) {
		c.logger.Warn("task queue stop timed out, some tasks may not have completed")
		return false
	}
	c.logger.Info("task queue stopped")
	return true
}

// Close releases the queue database. Call it after Stop.
func (c *Client) Close() error {
	return c.db.Close()
}

// Add starts an operation to enqueue one or more tasks.
func (c *Client) Add(tasks ...backlite.Task) *backlite.TaskAddOp {
	return c.backlite.Add(tasks...)
}

// Ping checks that the queue database answers.
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Path is the queue database file.
func (c *Client) Path() string {
	return c.path
}
