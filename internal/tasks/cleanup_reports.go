package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/fintrack/internal/logging"
)

// DefaultReportRetentionDays applies when a task carries no retention.
const DefaultReportRetentionDays = 90

// ReportCleaner deletes stored AI reports created before a cutoff.
type ReportCleaner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Cleaners applies one cutoff to several stores and sums the deletions.
// Every cleaner runs even when an earlier one fails.
type Cleaners []ReportCleaner

func (cs Cleaners) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var total int64
	var errs []error
	for _, c := range cs {
		n, err := c.DeleteOlderThan(ctx, cutoff)
		total += n
		if err != nil {
			errs = append(errs, err)
		}
	}
	return total, errors.Join(errs...)
}

// CleanupReportsTask removes AI reports older than the retention period.
type CleanupReportsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for report cleanup tasks.
func (t CleanupReportsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_ai_reports",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// Cutoff returns the creation time before which reports are deleted.
func (t CleanupReportsTask) Cutoff(now time.Time) time.Time {
	days := t.RetentionDays
	if days <= 0 {
		days = DefaultReportRetentionDays
	}
	return now.AddDate(0, 0, -days)
}

// CleanupReportsProcessor creates a processor function for CleanupReportsTask.
func CleanupReportsProcessor(cleaner ReportCleaner, logger *slog.Logger) backlite.QueueProcessor[CleanupReportsTask] {
	logger = logging.Component(logger, logging.ComponentTasks)
	return func(ctx context.Context, task CleanupReportsTask) error {
		if cleaner == nil {
			return errors.New("report cleaner not configured")
		}

		cutoff := task.Cutoff(time.Now())
		deleted, err := cleaner.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			return fmt.Errorf("cleanup ai reports: %w", err)
		}

		logger.Info("cleaned up ai reports", "deleted", deleted, "cutoff", cutoff.Format(time.DateOnly))
		return nil
	}
}

// NewCleanupReportsQueue creates a backlite queue for report cleanup tasks.
func NewCleanupReportsQueue(cleaner ReportCleaner, logger *slog.Logger) backlite.Queue {
	return backlite.NewQueue(CleanupReportsProcessor(cleaner, logger))
}

// EnqueueReportCleanup schedules one cleanup run and returns its task ID.
func (c *Client) EnqueueReportCleanup(ctx context.Context, retentionDays int) (string, error) {
	ids, err := c.Add(CleanupReportsTask{RetentionDays: retentionDays}).Ctx(ctx).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue report cleanup: %w", err)
	}
	if len(ids) == 0 {
		return "", errors.New("enqueue report cleanup: no task id returned")
	}
	return ids[0], nil
}
